// Package cli implements the interactive Zipboard shell: a thin terminal
// front over the auth, oauth and results services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/zipboard/zipboard/internal/alerts"
	"github.com/zipboard/zipboard/internal/api"
	"github.com/zipboard/zipboard/internal/auth"
	"github.com/zipboard/zipboard/internal/browser"
	"github.com/zipboard/zipboard/internal/config"
	"github.com/zipboard/zipboard/internal/db"
	"github.com/zipboard/zipboard/internal/logging"
	"github.com/zipboard/zipboard/internal/oauth"
	resultrepo "github.com/zipboard/zipboard/internal/repositories/results"
	"github.com/zipboard/zipboard/internal/results"
	"github.com/zipboard/zipboard/internal/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	conn    *sql.DB
	store   *session.Store
	auth    *auth.Service
	popup   *oauth.PopupFlow
	relay   *browser.CallbackRelay
	results *results.Service
	alerts  *alerts.Queue
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	conn, err := db.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return nil, err
	}

	store, err := session.Load(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, store)
	authSvc := auth.NewService(apiClient, store, browser.NopNavigator{}, log)

	bus := browser.NewLocalBus()
	urls := oauth.NewURLBuilder(cfg.APIBaseURL)
	popup := oauth.NewPopupFlow(urls, browser.NewSystemOpener(), bus, authSvc, cfg.PopupPollInterval, log)

	return &App{
		config:  cfg,
		conn:    conn,
		store:   store,
		auth:    authSvc,
		popup:   popup,
		relay:   browser.NewCallbackRelay(bus, log),
		results: results.NewService(resultrepo.NewSQLiteRepository(conn), apiClient, log),
		alerts:  alerts.NewQueue(alerts.DefaultTimeout),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the callback relay and hands control to the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.relay.Start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return nil
}

// Close releases the relay and the local database.
func (a *App) Close(ctx context.Context) error {
	if err := a.relay.Stop(ctx); err != nil {
		a.log.Warn(ctx, "stopping callback relay", "error", err)
	}
	return a.conn.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

// status renders the prompt suffix: username plus session state.
func (a *App) status() string {
	s := ""
	if u := a.store.CurrentUser(); u != nil {
		s = u.Username + " "
	}
	return s + a.store.Current().String()
}
