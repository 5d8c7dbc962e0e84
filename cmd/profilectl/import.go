package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	"github.com/reglet-dev/profilecache/internal/infrastructure/container"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "import <seeds.yaml>",
		Short: "Create profiles from a seed file",
		Long: `Create every profile listed in a YAML seed file. Rejected seeds are
reported individually; the command fails if any seed was rejected.`,
		Example: `  profilectl import seeds.yaml
  profilectl import seeds.yaml --format yaml --concurrency 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}
			c, err := newContainer(opts)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), c, args[0], opts.Format)
		},
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0,
		"Seeds processed at once (default from config, then number of CPUs)")

	return cmd
}

// runImport loads the seed file, creates its profiles and prints the report.
func runImport(ctx context.Context, w io.Writer, c *container.Container, path, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	seeds, err := c.SeedLoader().LoadFile(path)
	if err != nil {
		return err
	}

	formatter, err := c.Formatters().Create(format, w)
	if err != nil {
		return err
	}

	manager := c.ProfileManager()
	report, importErr := manager.Import(ctx, seeds)
	if report != nil {
		if err := formatter.FormatReport(dto.NewReportView(report)); err != nil {
			return err
		}
	}
	if importErr != nil {
		return fmt.Errorf("import interrupted: %w", importErr)
	}

	stats := manager.Stats()
	c.Logger().Debug("cache state after import",
		"entries", stats.Entries,
		"hits", stats.Hits,
		"misses", stats.Misses,
		"expired", stats.Expired)
	runtime.KeepAlive(report)

	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d seeds rejected", report.Failed(), report.Total)
	}
	return nil
}
