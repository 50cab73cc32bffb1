package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studioform/onboarding-backend/config"
	"github.com/studioform/onboarding-backend/internal/bootstrap"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	cronjob "github.com/studioform/onboarding-backend/internal/projects/cron"
	"github.com/studioform/onboarding-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.App.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	production := cfg.App.IsProduction()
	bootstrap.SetGinMode(production)

	db, err := postgres.Open(ctx, &cfg.Database, production)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	svcs, err := bootstrap.NewServices(ctx, cfg, lg, db, rdb)
	if err != nil {
		return err
	}

	reaper := cronjob.NewScheduler(svcs.Projects, cfg.Drafts.Retention, lg.With("module", "draft_reaper"))
	if err := reaper.Start(cfg.Drafts.PurgeSchedule); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: bootstrap.BuildRouter(bootstrap.RouterDeps{
			Config:   cfg,
			Log:      lg,
			DB:       db,
			Redis:    rdb,
			Services: svcs,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	lg.Info("shutting down", "grace", cfg.Server.ShutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	reaper.Stop(shutdownCtx)
	svcs.Saver.Wait()
	return err
}
