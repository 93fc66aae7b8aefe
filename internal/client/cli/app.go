package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/fieldsync/mobilecore/internal/client/config"
	"github.com/fieldsync/mobilecore/internal/client/device"
	"github.com/fieldsync/mobilecore/internal/client/httpapi"
	"github.com/fieldsync/mobilecore/internal/client/models"
	"github.com/fieldsync/mobilecore/internal/client/repositories/sessionstore"
	"github.com/fieldsync/mobilecore/internal/client/session"
	"github.com/fieldsync/mobilecore/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeNone      Mode = ""
	ModeAnonymous Mode = "anonymous"
	ModeSignedIn  Mode = "signed-in"
)

// connProbe is the slice of the transport client the connectivity
// watcher needs.
type connProbe interface {
	CheckConnection(ctx context.Context) bool
}

// sessionService defines the session operations the CLI needs.
// The real session.Manager satisfies this interface; tests can provide
// a lightweight stub.
type sessionService interface {
	SignInAnonymously(ctx context.Context) (*session.BootstrapResult, error)
	AutoLogin(ctx context.Context) (*models.Session, error)
	LoginWithEmail(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, email, password, displayName string) (*models.Session, error)
	LinkWithEmailPassword(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*models.Credential, error)
	SavedUser(ctx context.Context) (*models.Identity, error)
	SavedTokens(ctx context.Context) (*models.Credential, error)
	LinkedProviders(ctx context.Context) ([]session.ProviderStatus, error)
}

type App struct {
	config   *config.Config
	sessions sessionService
	api      connProbe
	db       *sql.DB
	log      logging.Logger
	reader   *bufio.Reader
	identity *models.Identity
	Mode     Mode

	// offline is read by the REPL goroutine while the connectivity
	// watcher writes it.
	offline atomic.Bool
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger, err := logging.NewLogger(c.LogLevel)
	if err != nil {
		return nil, err
	}

	store, db, err := sessionstore.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := httpapi.NewClient(c.BaseURL, c.RequestTimeout, logger)
	api.SetProbeTimeout(c.ProbeTimeout)

	sessions := session.NewManager(api, store, device.NewHost(), logger)
	sessions.SetBootstrapTimeout(c.BootstrapTimeout)

	return &App{
		config:   c,
		sessions: sessions,
		api:      api,
		db:       db,
		log:      logger,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// setOffline flips the connectivity indicator, logging transitions only.
func (a *App) setOffline(offline bool) {
	if !a.offline.CompareAndSwap(!offline, offline) {
		return
	}
	if offline {
		log.Println("Backend unreachable, working offline")
	} else {
		log.Println("Backend reachable again")
	}
}

// StartOnlineStatusWatcher probes the backend health endpoint on the
// given interval and keeps the offline indicator current. It returns
// when ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.setOffline(!a.api.CheckConnection(ctx))
		case <-ctx.Done():
			return
		}
	}
}

// setSession records the identity of the current session and updates
// the prompt mode accordingly.
func (a *App) setSession(identity *models.Identity) {
	a.identity = identity
	switch {
	case identity == nil:
		a.Mode = ModeNone
	case identity.IsAnonymous:
		a.Mode = ModeAnonymous
	default:
		a.Mode = ModeSignedIn
	}
}

func (a *App) isSignedIn() bool {
	return a.identity != nil && !a.identity.IsAnonymous
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
