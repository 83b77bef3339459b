package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/pharmahadir/hadir/internal/hadir/http"
	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/internal/hadir/store"
	"github.com/pharmahadir/hadir/internal/hadir/store/drivers/sqlite"
	"github.com/pharmahadir/hadir/internal/hadir/tabular"
	"github.com/pharmahadir/hadir/pkg/jwtx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	sessionIssuer = "hadir"
)

// Application encapsulates the roster service with all its dependencies.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	location *time.Location

	db     store.Store
	signer *jwtx.Signer

	rosterService  *service.RosterService
	rsvpService    *service.RSVPService
	importService  *service.ImportService
	exportService  service.ExportService
	sessionService *service.SessionService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "hadir",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	app.location = loc

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Auth is only active when an admin key is configured. Without one the
	// signer stays nil and the API runs open, which is only acceptable in
	// dev.
	if cfg.AdminKey != "" {
		app.signer = jwtx.NewSigner([]byte(cfg.SessionSecret), sessionIssuer, cfg.SessionTTL)
	} else {
		app.logger.Warn("no admin key configured, admin endpoints are unauthenticated")
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("hadir service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down hadir service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("hadir service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.rosterService = service.NewRosterService(app.db)
	app.rsvpService = &service.RSVPService{
		Roster:   app.rosterService,
		Location: app.location,
	}
	app.importService = &service.ImportService{Roster: app.rosterService}
	app.exportService = service.ExportService{}
	app.sessionService = &service.SessionService{
		AdminKey: app.cfg.AdminKey,
		Signer:   app.signer,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.cfg.PublicBaseURL,
		app.location,
		app.db,
		tabular.CSVCodec{},
		app.logger,
	)

	router.RosterService = app.rosterService
	router.RSVPService = app.rsvpService
	router.ImportService = app.importService
	router.ExportService = app.exportService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
