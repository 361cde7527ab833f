package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type migrationsStub struct {
	*repomanager.PostgresRepositoryManager
	err   error
	calls int
}

func (m *migrationsStub) RunMigrations(context.Context, *sql.DB) error {
	m.calls++
	return m.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.HTTPAddr = "127.0.0.1:0"
	return cfg
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewApp_UnknownLogBackend(t *testing.T) {
	cfg := testConfig()
	cfg.LogBackend = "syslog"

	_, err := NewApp(cfg)
	assert.Error(t, err)
}

func TestNewApp_InvalidBcryptCost(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.BcryptCost = 99

	_, err = newApp(cfg, discardLogger(), db, repomanager.NewPostgresRepositoryManager())
	assert.Error(t, err)
}

func TestRun_MigrationFailureStopsStartup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	rm := &migrationsStub{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager(), err: errors.New("boom")}
	app, err := newApp(testConfig(), discardLogger(), db, rm)
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, rm.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := testConfig()
	cfg.RefreshTokenSweepInterval = 0
	rm := &migrationsStub{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager()}
	app, err := newApp(cfg, discardLogger(), db, rm)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSweeper_PurgesExpiredTokens(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+expires_at\s*<=\s*\$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	app, err := newApp(testConfig(), discardLogger(), db, repomanager.NewPostgresRepositoryManager())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		app.runSweeper(ctx, 10*time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil },
		2*time.Second, 10*time.Millisecond)

	cancel()
	<-stopped
}

func TestRun_ListenFailureIsReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := testConfig()
	cfg.HTTPAddr = "256.0.0.1:99999"
	rm := &migrationsStub{PostgresRepositoryManager: repomanager.NewPostgresRepositoryManager()}
	app, err := newApp(cfg, discardLogger(), db, rm)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server")
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitSignalHandler_StopsWithContext(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app, err := newApp(testConfig(), discardLogger(), db, repomanager.NewPostgresRepositoryManager())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := app.initSignalHandler(ctx, cancel)

	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("signal handler still running after context cancellation")
	}
}
