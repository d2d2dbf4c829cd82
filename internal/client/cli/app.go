package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/client/client"
	"github.com/dmitrijs2005/labdrive/internal/client/config"
	"github.com/dmitrijs2005/labdrive/internal/client/imagestore"
	"github.com/dmitrijs2005/labdrive/internal/client/manager"
	"github.com/dmitrijs2005/labdrive/internal/client/models"
	"github.com/dmitrijs2005/labdrive/internal/client/presign"
	"github.com/dmitrijs2005/labdrive/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/labdrive/internal/client/services"
	"github.com/dmitrijs2005/labdrive/internal/client/tabguard"
	"github.com/dmitrijs2005/labdrive/internal/client/validation"
	"github.com/dmitrijs2005/labdrive/internal/logging"
	"github.com/dmitrijs2005/labdrive/internal/netx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is the interactive labdrive client.
type App struct {
	config *config.Config
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	db        *sql.DB
	api       *client.HTTPClient
	store     localstore.Repository
	storage   services.Storage
	validator *validation.Validator
	auth      services.AuthService

	project string
	run     string
	kind    models.Kind

	files    services.FileService
	docs     services.FileService
	notebook *services.NotebookService
	form     *cliForm
	table    *tableView
	runMgr   *manager.Manager
	docMgr   *manager.Manager
	hook     *imagestore.Hook
	hookOn   bool

	guard *tabguard.Guard
	draft url.Values

	mu       sync.Mutex
	mode     Mode
	userName string
}

// NewApp opens the local database and wires the services for cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localstore.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(cfg.BaseURL, cfg.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app, err := newApp(cfg, log, db, api, netx.NewStorageClient(cfg.RequestTimeout), bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(cfg *config.Config, log logging.Logger, db *sql.DB, api *client.HTTPClient, storage services.Storage, reader *bufio.Reader, out io.Writer) (*App, error) {
	tr, err := validation.NewCatalog(cfg.Language)
	if err != nil {
		return nil, err
	}

	store := localstore.NewSQLiteRepository(db)
	a := &App{
		config:    cfg,
		log:       log,
		reader:    reader,
		out:       out,
		db:        db,
		api:       api,
		store:     store,
		storage:   storage,
		validator: validation.NewValidator(cfg.AllowedExtensions, tr),
		auth:      services.NewAuthService(api, store),
		project:   cfg.Project,
		form:      &cliForm{out: out},
		table:     &tableView{out: out},
	}
	a.bindProject()
	a.bindRun(cfg.Run, models.Kind(cfg.Kind))
	return a, nil
}

func (a *App) bindProject() {
	if a.project == "" {
		return
	}
	docPresign := presign.NewDocumentService(a.api, a.project)
	a.docs = services.NewDocumentFileService(a.api, docPresign, a.storage, a.project, a.log)
	a.docMgr = manager.Enhance(a.form, a.table, a.docs, a.validator, a.log)
	a.hook = imagestore.New(a.project, services.NewImageStorageService(a.api, a.project), a.store, a.log,
		imagestore.WithOnChange(func(s models.ImageStorage) {
			a.log.Debug(context.Background(), "image storage updated", "base_url", s.BaseURL)
		}))
}

// bindRun points the run-scoped services at run and kind.
func (a *App) bindRun(run string, kind models.Kind) {
	a.run, a.kind = run, kind
	a.files, a.runMgr, a.notebook, a.guard, a.draft = nil, nil, nil, nil, nil
	if a.project == "" || run == "" {
		return
	}
	runPresign := presign.NewRunService(a.api, a.project, run, kind)
	a.files = services.NewFileService(a.api, runPresign, a.storage, a.project, run, kind, a.log)
	a.runMgr = manager.Enhance(a.form, a.table, a.files, a.validator, a.log)
	a.notebook = services.NewNotebookService(a.api, a.project, run)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.project
	if a.run != "" {
		s += "/" + a.run + "/" + string(a.kind)
	}
	if a.userName != "" {
		s = a.userName + "@" + s
	}
	if a.mode != "" {
		s += " " + string(a.mode)
	}
	return s
}

// Run starts the connectivity watcher and the REPL; it returns when the
// user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	printlnFn("Welcome to labdrive (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// Close stops the image storage hook and closes the database.
func (a *App) Close() error {
	if a.hook != nil && a.hookOn {
		a.hook.Unmount()
		a.hookOn = false
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
