// Package server initializes and runs the authentication server. It opens the
// database, applies migrations, serves the HTTP API, purges expired refresh
// tokens in the background and shuts everything down on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	httpserver "github.com/dmitrijs2005/portfolio/internal/server/http"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authService *services.AuthService
	httpServer  *httpserver.Server
}

// NewApp wires the application from c. The database handle is opened lazily
// by database/sql; connectivity problems surface in Run.
func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	hasher, err := auth.NewPasswordHasher(c.BcryptCost, c.MaxConcurrentHashes)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	as := services.NewAuthService(db, rm, issuer, hasher, c, logger.With("module", "auth_service"))
	hs := httpserver.NewServer(as, issuer, logger.With("module", "http_server"), c.AllowedOrigins)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		authService: as,
		httpServer:  hs,
	}, nil
}

// AuthService exposes the service for tools that share the server wiring.
func (app *App) AuthService() *services.AuthService { return app.authService }

// Migrate applies pending schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// initSignalHandler cancels on SIGINT/SIGTERM/SIGQUIT. The returned channel
// is closed once the handler has stopped listening, either after a signal or
// when ctx is done.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return stopped
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.httpServer.Run(ctx, app.config.HTTPAddr); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// runSweeper purges expired refresh tokens every interval until ctx is done.
func (app *App) runSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredRefreshTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}

// Run applies migrations and serves until a shutdown signal arrives or the
// HTTP server fails. A server that cannot start or stops with an error makes
// Run return that error.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.Migrate(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	signalsStopped := app.initSignalHandler(ctx, cancelFunc)

	var (
		wg      sync.WaitGroup
		httpErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		httpErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	if interval := app.config.RefreshTokenSweepInterval; interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runSweeper(ctx, interval)
		}()
	}

	wg.Wait()
	cancelFunc()
	<-signalsStopped

	app.logger.Info(context.Background(), "App stopped")
	return httpErr
}

// Close releases the database handle and flushes the logger.
func (app *App) Close() {
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
