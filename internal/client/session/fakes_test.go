package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/fieldsync/mobilecore/internal/client/models"
	"github.com/fieldsync/mobilecore/internal/logging"
	"go.uber.org/zap"
)

// fakeAPI implements API for Manager unit tests. Responses are keyed by
// path; a nil entry means "respond with Err".
type fakeAPI struct {
	mu sync.Mutex

	// Responses maps path -> JSON-encodable payload handed to out.
	Responses map[string]any
	// Errs maps path -> error returned instead of a response.
	Errs map[string]error

	// Calls records the paths posted, in order.
	Calls []string
	// Bodies records the body sent per call, parallel to Calls.
	Bodies []any

	// Tokens records every SetAuthToken value, in order.
	Tokens []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{Responses: map[string]any{}, Errs: map[string]error{}}
}

func (f *fakeAPI) Post(ctx context.Context, path string, body any, out any) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, path)
	f.Bodies = append(f.Bodies, body)
	f.mu.Unlock()

	if err, ok := f.Errs[path]; ok {
		return err
	}
	resp, ok := f.Responses[path]
	if !ok {
		return errors.New("unexpected call to " + path)
	}
	if out == nil || resp == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeAPI) SetAuthToken(token string) {
	f.mu.Lock()
	f.Tokens = append(f.Tokens, token)
	f.mu.Unlock()
}

func (f *fakeAPI) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Tokens) == 0 {
		return ""
	}
	return f.Tokens[len(f.Tokens)-1]
}

// fakeStore is an in-memory Store that mirrors the all-or-nothing write
// discipline of the sqlite-backed one. Individual operations can be made
// to fail via the *Err fields.
type fakeStore struct {
	credential *models.Credential
	identity   *models.Identity
	anonymous  bool

	SaveSessionErr    error
	SaveCredentialErr error
	ReadErr           error
	ClearErr          error

	// SaveSessionCalls counts complete session writes.
	SaveSessionCalls int
}

func (f *fakeStore) SaveSession(ctx context.Context, identity models.Identity, credential models.Credential, anonymous bool) error {
	if f.SaveSessionErr != nil {
		return f.SaveSessionErr
	}
	f.SaveSessionCalls++
	ident := identity
	cred := credential
	f.identity = &ident
	f.credential = &cred
	f.anonymous = anonymous
	return nil
}

func (f *fakeStore) SaveCredential(ctx context.Context, credential models.Credential) error {
	if f.SaveCredentialErr != nil {
		return f.SaveCredentialErr
	}
	cred := credential
	f.credential = &cred
	return nil
}

func (f *fakeStore) Credential(ctx context.Context) (*models.Credential, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	return f.credential, nil
}

func (f *fakeStore) Identity(ctx context.Context) (*models.Identity, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	return f.identity, nil
}

func (f *fakeStore) IsAnonymous(ctx context.Context) (bool, error) {
	if f.ReadErr != nil {
		return false, f.ReadErr
	}
	return f.anonymous, nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.credential = nil
	f.identity = nil
	f.anonymous = false
	return nil
}

// fixedNow is the deterministic clock used across the tests.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	api     *fakeAPI
	store   *fakeStore
	manager *Manager
}

func newFixture() *fixture {
	api := newFakeAPI()
	store := &fakeStore{}
	m := NewManager(api, store, staticDevice{}, logging.NewZapLogger(zap.NewNop()))
	m.now = func() time.Time { return fixedNow }
	return &fixture{api: api, store: store, manager: m}
}

// staticDevice avoids importing the host-backed provider in tests.
type staticDevice struct{}

func (staticDevice) ID() string   { return "dev-42" }
func (staticDevice) Name() string { return "Test Device" }

// remoteUser is the backend user payload used by happy-path responses.
var remoteUser = map[string]any{
	"id":           "usr_7",
	"email":        "ada@example.com",
	"display_name": "Ada",
	"created_at":   fixedNow.Format(time.RFC3339),
	"updated_at":   fixedNow.Format(time.RFC3339),
}
