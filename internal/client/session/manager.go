package session

import (
	"context"
	"sync"
	"time"

	"github.com/fieldsync/mobilecore/internal/client/device"
	"github.com/fieldsync/mobilecore/internal/client/httpapi"
	"github.com/fieldsync/mobilecore/internal/client/models"
	"github.com/fieldsync/mobilecore/internal/logging"
)

// Backend endpoints consumed by the Manager.
const (
	pathDeviceRegister  = "/v1/auth/device"
	pathLogin           = "/v1/auth/login"
	pathRegister        = "/v1/auth/register"
	pathLinkEmail       = "/v1/auth/link/email"
	pathLinkPhoneStart  = "/v1/auth/link/phone/start"
	pathLinkPhoneVerify = "/v1/auth/link/phone/verify"
	pathRefresh         = "/v1/auth/refresh"
	pathLogout          = "/v1/auth/logout"
)

const (
	// remoteTokenTTL is the default lifetime of a backend-issued
	// credential when the response carries no expiry of its own.
	remoteTokenTTL = 30 * 24 * time.Hour

	// localTokenTTL is the lifetime of a locally issued credential,
	// long enough to keep an offline device signed in.
	localTokenTTL = 365 * 24 * time.Hour

	// bootstrapTimeout caps the remote leg of the anonymous bootstrap
	// before falling back to a local identity.
	bootstrapTimeout = 5 * time.Second
)

// API is the slice of the transport client the Manager depends on.
// *httpapi.Client satisfies it.
type API interface {
	Post(ctx context.Context, path string, body any, out any) error
	SetAuthToken(token string)
}

// Store is the persisted-session access the Manager depends on.
// *sessionstore.Store satisfies it. The Manager is the only writer of
// the underlying keys.
type Store interface {
	SaveSession(ctx context.Context, identity models.Identity, credential models.Credential, anonymous bool) error
	SaveCredential(ctx context.Context, credential models.Credential) error
	Credential(ctx context.Context) (*models.Credential, error)
	Identity(ctx context.Context) (*models.Identity, error)
	IsAnonymous(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// Manager owns the authentication lifecycle: anonymous bootstrap, login,
// registration, credential linking, token refresh, logout, and
// auto-login on startup. One Manager instance is constructed at process
// start and shared by reference.
//
// Session-mutating operations are serialized by an internal mutex, so
// overlapping calls (a Logout racing a Refresh, say) execute one after
// another instead of interleaving their storage writes.
type Manager struct {
	api    API
	store  Store
	device device.Provider
	log    logging.Logger

	// now is a clock seam for tests.
	now func() time.Time

	// bootstrapTimeout is adjustable in tests; defaults to the package
	// constant.
	bootstrapTimeout time.Duration

	mu sync.Mutex
}

// SetBootstrapTimeout overrides the cap on the remote half of the
// anonymous bootstrap.
func (m *Manager) SetBootstrapTimeout(d time.Duration) {
	if d > 0 {
		m.bootstrapTimeout = d
	}
}

// NewManager wires a Manager from its collaborators.
func NewManager(api API, store Store, dev device.Provider, log logging.Logger) *Manager {
	return &Manager{
		api:              api,
		store:            store,
		device:           dev,
		log:              log,
		now:              time.Now,
		bootstrapTimeout: bootstrapTimeout,
	}
}

// LoginWithEmail authenticates with an email/password pair. On success
// the returned session is persisted atomically and the bearer token is
// pushed into the transport client.
func (m *Manager) LoginWithEmail(ctx context.Context, email, password string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	body := map[string]string{"email": email, "password": password}
	return m.authenticate(ctx, pathLogin, body)
}

// Register creates a new account and signs it in.
func (m *Manager) Register(ctx context.Context, email, password, displayName string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	body := map[string]string{"email": email, "password": password, "display_name": displayName}
	return m.authenticate(ctx, pathRegister, body)
}

// LinkWithEmailPassword upgrades the current (anonymous) identity to an
// email-backed one. Whether the identity keeps its id is the backend's
// call: the persisted identity is whatever the response carries.
func (m *Manager) LinkWithEmailPassword(ctx context.Context, email, password string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	body := map[string]string{"email": email, "password": password}
	return m.authenticate(ctx, pathLinkEmail, body)
}

// LinkWithPhoneNumber starts the two-phase phone linking flow and
// returns a verification id. The flow is not implemented yet; the call
// fails immediately with a descriptive error rather than pretending to
// succeed.
func (m *Manager) LinkWithPhoneNumber(ctx context.Context, phoneNumber string) (string, error) {
	return "", &Error{
		Code:    "PROVIDER_NOT_IMPLEMENTED",
		Message: "Phone sign-in is not available yet.",
	}
}

// CompleteLinkWithPhone exchanges a verification id and code for a
// credential, with the same all-or-nothing persistence as login.
func (m *Manager) CompleteLinkWithPhone(ctx context.Context, verificationID, code string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	body := map[string]string{"verification_id": verificationID, "code": code}
	return m.authenticate(ctx, pathLinkPhoneVerify, body)
}

// authenticate runs a credential-issuing call and persists the result.
// Either both the credential and the identity are written, or neither
// is. Caller must hold m.mu.
func (m *Manager) authenticate(ctx context.Context, path string, body any) (*models.Session, error) {
	var resp authResponse
	if err := m.api.Post(ctx, path, body, &resp); err != nil {
		return nil, wrapAPIError(err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, &Error{
			Code:    "MALFORMED_RESPONSE",
			Message: userMessages[httpapi.KindUnknown],
		}
	}

	credential := credentialFromResponse(resp, m.now(), remoteTokenTTL)
	identity := identityFromUser(*resp.User, false)

	if err := m.store.SaveSession(ctx, identity, credential, false); err != nil {
		return nil, newStorageError(err)
	}
	m.api.SetAuthToken(credential.AccessToken)

	m.log.Info(ctx, "authenticated", "user_id", identity.ID)

	return &models.Session{Identity: identity, Credential: credential, Anonymous: false}, nil
}

// Logout notifies the backend on a best-effort basis, then
// unconditionally clears the persisted session and the transport token.
// A failed backend notification is logged and swallowed: local cleanup
// is the operation's real contract.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.Post(ctx, pathLogout, struct{}{}, nil); err != nil {
		m.log.Warn(ctx, "logout notification failed", "error", err.Error())
	}

	if err := m.store.Clear(ctx); err != nil {
		return newStorageError(err)
	}
	m.api.SetAuthToken("")

	m.log.Info(ctx, "logged out")
	return nil
}

// RefreshToken renews the persisted credential. On failure the previous
// credential is left untouched; callers treat the error as "session
// invalid".
func (m *Manager) RefreshToken(ctx context.Context) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.refreshLocked(ctx)
}

func (m *Manager) refreshLocked(ctx context.Context) (*models.Credential, error) {
	current, err := m.store.Credential(ctx)
	if err != nil {
		return nil, newStorageError(err)
	}
	if current == nil {
		return nil, errNoSession()
	}

	var resp authResponse
	body := map[string]string{"access_token": current.AccessToken}
	if err := m.api.Post(ctx, pathRefresh, body, &resp); err != nil {
		return nil, wrapAPIError(err)
	}
	if resp.AccessToken == "" {
		return nil, &Error{
			Code:    "MALFORMED_RESPONSE",
			Message: userMessages[httpapi.KindUnknown],
		}
	}

	credential := credentialFromResponse(resp, m.now(), remoteTokenTTL)
	if err := m.store.SaveCredential(ctx, credential); err != nil {
		return nil, newStorageError(err)
	}
	m.api.SetAuthToken(credential.AccessToken)

	return &credential, nil
}

// AutoLogin restores the session on startup: reuse a valid persisted
// credential, refresh an expired one, or bootstrap a fresh anonymous
// session when nothing usable remains. It returns (nil, nil) only when
// even the bootstrap fails (e.g. local persistence is unavailable);
// callers must handle a nil session without crashing.
func (m *Manager) AutoLogin(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	credential, err := m.store.Credential(ctx)
	if err != nil {
		m.log.Warn(ctx, "auto-login: cannot read saved credential", "error", err.Error())
		return m.bootstrapOrNothing(ctx)
	}
	identity, err := m.store.Identity(ctx)
	if err != nil {
		m.log.Warn(ctx, "auto-login: cannot read saved identity", "error", err.Error())
		return m.bootstrapOrNothing(ctx)
	}

	if credential == nil || identity == nil {
		return m.bootstrapOrNothing(ctx)
	}

	anonymous, err := m.store.IsAnonymous(ctx)
	if err != nil {
		m.log.Warn(ctx, "auto-login: cannot read anonymity flag", "error", err.Error())
		return m.bootstrapOrNothing(ctx)
	}

	if !credential.Expired(m.now()) {
		m.api.SetAuthToken(credential.AccessToken)
		return &models.Session{Identity: *identity, Credential: *credential, Anonymous: anonymous}, nil
	}

	refreshed, err := m.refreshLocked(ctx)
	if err == nil {
		return &models.Session{Identity: *identity, Credential: *refreshed, Anonymous: anonymous}, nil
	}
	m.log.Info(ctx, "auto-login: refresh failed, bootstrapping a new session", "error", err.Error())

	return m.bootstrapOrNothing(ctx)
}

// bootstrapOrNothing runs the anonymous bootstrap and translates its
// failure into the "no session" outcome. Caller must hold m.mu.
func (m *Manager) bootstrapOrNothing(ctx context.Context) (*models.Session, error) {
	result, err := m.bootstrapLocked(ctx)
	if err != nil {
		m.log.Error(ctx, "auto-login: bootstrap failed", "error", err.Error())
		return nil, nil
	}
	return &result.Session, nil
}

// SavedUser returns the persisted identity, or nil when none is saved.
func (m *Manager) SavedUser(ctx context.Context) (*models.Identity, error) {
	identity, err := m.store.Identity(ctx)
	if err != nil {
		return nil, newStorageError(err)
	}
	return identity, nil
}

// SavedTokens returns the persisted credential, or nil when none is
// saved.
func (m *Manager) SavedTokens(ctx context.Context) (*models.Credential, error) {
	credential, err := m.store.Credential(ctx)
	if err != nil {
		return nil, newStorageError(err)
	}
	return credential, nil
}

// IsTokenExpired reports whether the saved credential is missing or past
// its expiry. The boundary is inclusive: now == expiresAt means expired.
func (m *Manager) IsTokenExpired(ctx context.Context) (bool, error) {
	credential, err := m.store.Credential(ctx)
	if err != nil {
		return true, newStorageError(err)
	}
	if credential == nil {
		return true, nil
	}
	return credential.Expired(m.now()), nil
}

// IsAnonymous reports the persisted anonymity flag.
func (m *Manager) IsAnonymous(ctx context.Context) (bool, error) {
	anonymous, err := m.store.IsAnonymous(ctx)
	if err != nil {
		return false, newStorageError(err)
	}
	return anonymous, nil
}
