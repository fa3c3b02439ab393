// Package app wires the storage backends, services and HTTP server together
// and owns their lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/api"
	"github.com/skicoach/coach-schedule/internal/config"
	"github.com/skicoach/coach-schedule/internal/service"
	"github.com/skicoach/coach-schedule/internal/store"
	"github.com/skicoach/coach-schedule/internal/store/local"
	"github.com/skicoach/coach-schedule/internal/store/remote"
)

type App struct {
	cfg    *config.Config
	logger *zap.Logger

	localStore *local.Store
	pool       *pgxpool.Pool
	server     *http.Server
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	localStore, err := local.Open(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	a.localStore = localStore

	var scoped store.UserScoped
	if cfg.RemoteEnabled() {
		pool, err := pgxpool.New(context.Background(), cfg.DBDSN)
		if err != nil {
			localStore.Close()
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		a.pool = pool
		scoped = remote.NewStore(pool)
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			a.closeStores()
			return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
	}

	selector := store.NewSelector(localStore, scoped, api.Resolver())

	events := service.NewEventService(selector, localStore, logger)
	configs := service.NewConfigService(localStore, logger)
	migration := service.NewMigrationService(selector, localStore, logger)
	backup := service.NewBackupService(localStore, localStore, logger)

	srv := api.NewServer(events, configs, migration, backup, loc, logger)

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Migrate applies the remote schema. A no-op without a remote backend.
func (a *App) Migrate(ctx context.Context) error {
	if a.pool == nil {
		return nil
	}
	migrator, err := NewMigrator(a.pool, a.cfg.MigrationsPath, a.logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Run(ctx)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			a.closeStores()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown failed", zap.Error(err))
	}

	a.closeStores()
	a.logger.Info("Shutdown complete")
	return nil
}

func (a *App) closeStores() {
	if a.localStore != nil {
		if err := a.localStore.Close(); err != nil {
			a.logger.Error("Failed to close local store", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
