package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cpphub/hubclient/internal/client/client"
	"github.com/cpphub/hubclient/internal/client/config"
	"github.com/cpphub/hubclient/internal/client/gating"
	"github.com/cpphub/hubclient/internal/client/persistence"
	"github.com/cpphub/hubclient/internal/client/services"
	"github.com/cpphub/hubclient/internal/client/session"
	"github.com/cpphub/hubclient/internal/filex"
	"github.com/cpphub/hubclient/internal/logging"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	store    *session.Store
	boot     *services.Bootstrapper
	cooldown *gating.Cooldown
	log      logging.Logger
	db       *sql.DB

	reader *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex

	// password reset in progress
	resetIdentifier string
	resetCode       string

	lastModal gating.Modal
}

// NewApp opens the session database and wires the transport, the session
// store and the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		log.Error(ctx, "error preparing database directory", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	db, err := persistence.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	adapter := persistence.NewAdapter(db, log)
	store := session.NewStore(adapter, session.WithLogger(log))
	apiClient := client.NewHTTPClient(c.APIBaseURL, client.WithLogger(log))
	auth := services.NewAuthService(apiClient, store, apiClient.BaseURL(), services.WithAuthLogger(log))

	a := &App{
		config:   c,
		auth:     auth,
		store:    store,
		boot:     services.NewBootstrapper(adapter, auth, store, log),
		cooldown: gating.NewCooldown(c.ResendCooldown, nil),
		log:      log,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	return a, nil
}

// Run restores the saved session and blocks in the REPL until the user
// exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.User() != nil
}

func (a *App) gate() gating.Decision {
	return gating.Decide(a.store.Snapshot())
}

// watchSession prints a notice whenever the modal state changes.
func (a *App) watchSession() func() {
	return a.store.Subscribe(func(snap session.Snapshot) {
		d := gating.Decide(snap)

		a.outMu.Lock()
		changed := d.Modal != a.lastModal
		a.lastModal = d.Modal
		a.outMu.Unlock()

		if changed && d.Modal != gating.ModalNone {
			a.showModal(d)
		}
	})
}

// reportBoot prints the outcome of the saved-session revalidation.
func (a *App) reportBoot(ctx context.Context) {
	select {
	case <-a.boot.Done():
	case <-ctx.Done():
		return
	}
	switch a.boot.State() {
	case services.Invalidated:
		a.println("Your saved session is no longer valid. Please log in again.")
	case services.Confirmed:
		if u := a.store.User(); u != nil {
			a.printf("Welcome back, %s.\n", u.Name)
		}
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = fmt.Fprintln(a.out, args...)
}
