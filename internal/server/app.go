// Package server wires the development backend together: PostgreSQL,
// the S3-compatible object store, the services and the HTTP API. It
// handles signals and shuts the HTTP server down gracefully.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/labdrive/internal/logging"
	"github.com/dmitrijs2005/labdrive/internal/server/config"
	"github.com/dmitrijs2005/labdrive/internal/server/httpapi"
	"github.com/dmitrijs2005/labdrive/internal/server/objectstore"
	"github.com/dmitrijs2005/labdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/labdrive/internal/server/services"
)

const (
	purgeInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

// listen is replaced in tests.
var listen = net.Listen

type App struct {
	config   *config.Config
	logger   *logging.SlogLogger
	db       *sql.DB
	clock    clock.Clock
	accounts *services.AccountService
	files    *services.FileService
	images   *services.ImageStorageService
	notebook *services.NotebookService
}

// NewApp opens the database, applies migrations and connects the object
// store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	store, err := objectstore.New(ctx, objectstore.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
		Expiry:       c.PresignValidityDuration,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	return newApp(c, logger, db, rm, store, clock.New()), nil
}

func newApp(c *config.Config, logger *logging.SlogLogger, db *sql.DB, rm repomanager.RepositoryManager, store services.ObjectStore, clk clock.Clock) *App {
	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		clock:    clk,
		accounts: services.NewAccountService(db, rm, c),
		files:    services.NewFileService(db, rm, store, logger.With("module", "files")),
		images:   services.NewImageStorageService(c, clk),
		notebook: services.NewNotebookService(db, rm),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// seedDevUser creates the configured development account if it is missing.
func (app *App) seedDevUser(ctx context.Context) error {
	if app.config.DevUserName == "" {
		return nil
	}
	u, err := app.accounts.EnsureUser(ctx, app.config.DevUserName, app.config.DevUserPassword)
	if err != nil {
		return err
	}
	app.logger.Info(ctx, "development user ready", "username", u.UserName)
	return nil
}

func (app *App) handler() http.Handler {
	h := httpapi.NewHandler(app.accounts, app.files, app.images, app.notebook, app.logger.With("module", "httpapi"))
	return httpapi.NewRouter(h, app.logger.Slog())
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	ln, err := listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		app.logger.Error(ctx, "listen failed", "addr", app.config.EndpointAddrHTTP, "error", err)
		cancelFunc()
		return
	}

	srv := &http.Server{
		Handler:           app.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(sctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server started", "addr", ln.Addr().String())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

// startSignaturePurger drops expired signature records every interval.
func (app *App) startSignaturePurger(ctx context.Context, interval time.Duration) {
	ticker := app.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := app.files.PurgeSignatures(ctx, app.clock.Now())
			if err != nil {
				app.logger.Warn(ctx, "signature purge failed", "error", err)
				continue
			}
			app.logger.Debug(ctx, "expired signatures purged", "count", n)
		case <-ctx.Done():
			return
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.seedDevUser(ctx); err != nil {
		app.logger.Error(ctx, "seed development user", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startSignaturePurger(ctx, purgeInterval)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
	}
	app.logger.Info(context.Background(), "app stopped")
}
