package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fieldsync/mobilecore/internal/client/models"
)

// Origin tags how an anonymous session came to be.
type Origin string

const (
	// OriginRemote: the identity was registered with the backend.
	OriginRemote Origin = "remote"
	// OriginLocal: the backend was unreachable and the identity was
	// synthesized on this device.
	OriginLocal Origin = "local"
)

// BootstrapResult is the explicit outcome of the anonymous bootstrap.
// The remote/local branch is a first-class value rather than an
// exception path, so callers and tests can assert on it directly.
type BootstrapResult struct {
	Origin  Origin
	Session models.Session
}

// SignInAnonymously establishes an anonymous session. It first tries to
// register a device-derived identity with the backend within a short
// timeout; any backend failure silently falls back to a fully local
// identity. The only error this operation surfaces is a failure of
// local persistence itself.
func (m *Manager) SignInAnonymously(ctx context.Context) (*BootstrapResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.bootstrapLocked(ctx)
}

func (m *Manager) bootstrapLocked(ctx context.Context) (*BootstrapResult, error) {
	deviceID := m.device.ID()
	deviceName := m.device.Name()

	result, err := m.tryRemoteBootstrap(ctx, deviceID, deviceName)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	return m.localBootstrap(ctx, deviceID, deviceName)
}

// tryRemoteBootstrap registers the device with the backend. A nil
// result with a nil error means "fall back to the local branch": any
// backend failure is logged, not surfaced, because the local fallback
// is the designed behavior when offline. A non-nil error is reserved
// for local persistence failures, which the local branch cannot fix.
func (m *Manager) tryRemoteBootstrap(ctx context.Context, deviceID, deviceName string) (*BootstrapResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.bootstrapTimeout)
	defer cancel()

	var resp authResponse
	body := map[string]string{"device_id": deviceID, "device_name": deviceName}
	if err := m.api.Post(callCtx, pathDeviceRegister, body, &resp); err != nil {
		m.log.Info(ctx, "anonymous bootstrap: backend unreachable, using local identity",
			"error", err.Error())
		return nil, nil
	}
	if resp.AccessToken == "" || resp.User == nil {
		m.log.Warn(ctx, "anonymous bootstrap: malformed backend response, using local identity")
		return nil, nil
	}

	credential := credentialFromResponse(resp, m.now(), remoteTokenTTL)
	identity := identityFromUser(*resp.User, true)

	if err := m.store.SaveSession(ctx, identity, credential, true); err != nil {
		return nil, newStorageError(err)
	}
	m.api.SetAuthToken(credential.AccessToken)

	m.log.Info(ctx, "anonymous session established", "origin", string(OriginRemote), "user_id", identity.ID)

	return &BootstrapResult{
		Origin:  OriginRemote,
		Session: models.Session{Identity: identity, Credential: credential, Anonymous: true},
	}, nil
}

// localBootstrap constructs a device-local identity and credential.
// It never fails unless persistence itself does.
func (m *Manager) localBootstrap(ctx context.Context, deviceID, deviceName string) (*BootstrapResult, error) {
	now := m.now()

	identity := models.Identity{
		ID:          fmt.Sprintf("local-%s-%d", deviceID, now.Unix()),
		Email:       deviceID + "@local.device",
		DisplayName: deviceName,
		IsAnonymous: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	credential := models.Credential{
		AccessToken: "local-" + uuid.NewString(),
		ExpiresAt:   now.Add(localTokenTTL),
	}

	if err := m.store.SaveSession(ctx, identity, credential, true); err != nil {
		return nil, newStorageError(err)
	}
	m.api.SetAuthToken(credential.AccessToken)

	m.log.Info(ctx, "anonymous session established", "origin", string(OriginLocal), "user_id", identity.ID)

	return &BootstrapResult{
		Origin:  OriginLocal,
		Session: models.Session{Identity: identity, Credential: credential, Anonymous: true},
	}, nil
}
