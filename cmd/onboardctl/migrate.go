package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studioform/onboarding-backend/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := postgres.Migrate(ctx, e.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okMark, "schema is up to date")
			return nil
		},
	}
}
