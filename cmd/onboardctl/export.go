package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/studioform/onboarding-backend/internal/bootstrap"
	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

func exportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <projectId>",
		Short: "Write the creative brief of a stored submission to disk",
		Long: `Render the brief PDF and image archive of a stored submission.

Examples:
  onboardctl export onb-48213-0937
  onboardctl export onb-48213-0937 --out ./briefs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			svcs, err := bootstrap.NewServices(ctx, e.cfg, e.log, e.db, nil)
			if err != nil {
				return err
			}

			sub, err := svcs.Projects.Get(ctx, args[0])
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("project %s does not exist", args[0])
			}
			if err != nil {
				return err
			}

			bundle, err := svcs.Exporter.Export(ctx, sub.Data)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			docPath := filepath.Join(outDir, bundle.DocumentName)
			if err := os.WriteFile(docPath, bundle.Document, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(out, okMark, "wrote", color.CyanString(docPath))

			if bundle.Archive != nil {
				zipPath := filepath.Join(outDir, bundle.ArchiveName)
				if err := os.WriteFile(zipPath, bundle.Archive, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(out, okMark, "wrote", color.CyanString(zipPath))
			}
			fmt.Fprintln(out, bundle.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}
