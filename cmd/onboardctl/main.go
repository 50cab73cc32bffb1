package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/studioform/onboarding-backend/config"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	"github.com/studioform/onboarding-backend/internal/storage/postgres"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "onboardctl",
		Short:         "Operator tasks for the onboarding backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(purgeDraftsCmd())
	rootCmd.AddCommand(exportCmd())
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// env bundles what every command opens before doing its work.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *sql.DB
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lg, err := logger.New("production")
	if err != nil {
		return nil, err
	}
	db, err := postgres.Open(ctx, &cfg.Database, cfg.App.IsProduction())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: lg, db: db}, nil
}

func (e *env) Close() {
	_ = e.db.Close()
	e.log.Sync()
}
