package app

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"summaryedit/internal/config"
	"summaryedit/internal/editor"
	"summaryedit/internal/logging"
	"summaryedit/internal/service"
	"summaryedit/internal/storage"
)

// App wires configuration, storage and services together for one process.
type App struct {
	cfg *config.Config
	log *logging.Logger

	db       *storage.DB
	store    *storage.SessionStore
	sessions *service.SessionService
	inbox    *service.Inbox
}

// New creates an App from resolved configuration. Nothing is opened until Startup.
func New(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// Startup opens the database, creates the services and starts autosave.
func (a *App) Startup(ctx context.Context) error {
	logger, err := logging.New(logging.Options{
		Level: a.cfg.LogLevel,
		JSON:  a.cfg.LogJSON,
		Path:  a.cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.log = logger

	db, err := storage.New(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.store = storage.NewSessionStore(db)

	emitter := logEmitter{log: a.log.Logger}
	a.sessions = service.NewSessionService(a.store, emitter, a.log.Logger, editor.Options{Coalesce: a.cfg.Coalesce})
	a.inbox = service.NewInbox(a.cfg.InboxDir, a.sessions, emitter, a.log.Logger)

	if err := a.sessions.StartAutosave(ctx, a.cfg.Autosave); err != nil {
		return err
	}
	a.log.Debug().Str("db", a.cfg.DBPath).Msg("app started")
	return nil
}

// Shutdown stops background work, flushes dirty sessions and closes the database.
func (a *App) Shutdown(ctx context.Context) {
	if a.inbox != nil {
		a.inbox.Stop()
	}
	if a.sessions != nil {
		if err := a.sessions.Stop(ctx); err != nil {
			a.log.Error().Err(err).Msg("flush sessions")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}

func (a *App) Sessions() *service.SessionService { return a.sessions }

// logEmitter reports service events in the log; there is no frontend in
// headless mode.
type logEmitter struct {
	log zerolog.Logger
}

func (e logEmitter) Emit(_ context.Context, event string, data any) {
	e.log.Debug().Str("event", event).Interface("data", data).Msg("event")
}

// systemClipboard writes to the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// CopyToClipboard writes text to the OS clipboard.
func CopyToClipboard(text string) error {
	return systemClipboard{}.WriteAll(text)
}
