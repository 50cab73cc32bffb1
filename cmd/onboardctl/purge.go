package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	projectrepo "github.com/studioform/onboarding-backend/internal/projects/repository"
	projectservice "github.com/studioform/onboarding-backend/internal/projects/service"
)

func purgeDraftsCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge-drafts",
		Short: "Delete draft submissions that have not been touched for a while",
		Long: `Delete draft submissions whose last update is older than --older-than.
Submitted projects are never removed.

Examples:
  onboardctl purge-drafts
  onboardctl purge-drafts --older-than 168h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if olderThan <= 0 {
				olderThan = e.cfg.Drafts.Retention
			}
			svc := projectservice.NewProjectService(projectrepo.NewProjectRepository(e.db), e.log)
			n, err := svc.PurgeStaleDrafts(ctx, olderThan)
			if err != nil {
				return err
			}

			mark := okMark
			if n == 0 {
				mark = warnMark
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s purged %d draft(s) older than %s\n", mark, n, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age threshold (defaults to DRAFT_RETENTION)")
	return cmd
}
