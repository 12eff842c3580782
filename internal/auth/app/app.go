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

	httpapi "github.com/fpsgroup/authentic/internal/auth/http"
	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/internal/auth/store/drivers/memory"
	"github.com/fpsgroup/authentic/internal/auth/store/drivers/sqlite"
	"github.com/fpsgroup/authentic/internal/auth/webui"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the store, services and HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authorizeService     *service.AuthorizeService
	consentService       *service.ConsentService
	tokenService         *service.TokenService
	clientService        *service.ClientService
	introspectionService *service.IntrospectionService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authentic",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.initHTTP(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "sqlite":
		db, err := sqlite.NewStore(app.cfg.DatabaseFile)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("apply migrations: %w", err)
		}
		app.db = db
		app.logger.Info("using sqlite store", "file", app.cfg.DatabaseFile)

	default:
		app.db = memory.NewStore()
		app.logger.Info("using in-memory store")
	}
	return nil
}

func (app *Application) initServices() {
	app.authorizeService = &service.AuthorizeService{
		Store: app.db,
		Credentials: service.Credentials{
			Username:     app.cfg.Username,
			Password:     app.cfg.Password,
			PasswordHash: app.cfg.PasswordHash,
		},
		Scopes:  app.cfg.Scopes,
		CodeTTL: app.cfg.CodeTTL,
	}
	app.consentService = &service.ConsentService{
		Store:     app.db,
		Authorize: app.authorizeService,
	}
	app.tokenService = &service.TokenService{
		Store:     app.db,
		AccessTTL: app.cfg.AccessTTL,
		Subject:   app.cfg.Username,
	}
	app.clientService = &service.ClientService{Store: app.db}
	app.introspectionService = &service.IntrospectionService{Store: app.db}
}

func (app *Application) initHTTP() error {
	renderer, err := webui.NewRenderer()
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	router := httpapi.NewRouter(app.cfg.Issuer, app.db, renderer, app.logger)
	router.AuthorizeService = app.authorizeService
	router.ConsentService = app.consentService
	router.TokenService = app.tokenService
	router.ClientService = app.clientService
	router.IntrospectionService = app.introspectionService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              app.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("authorization server starting",
		"addr", app.cfg.Addr(),
		"issuer", app.cfg.Issuer,
		"version", BuildVersion,
	)

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
		app.logger.Info("shutdown signal received", "signal", sig.String())
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		return err
	}
	return app.db.Close()
}
