package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/profilecache/internal/infrastructure/container"
)

var supportedFormats = []string{"table", "json", "yaml"}

// CommonOptions contains flags shared by the profile commands.
type CommonOptions struct {
	// Output
	Format string

	// Import
	Concurrency int
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Format: "table",
	}
}

// RegisterFlags adds the output flag to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml")
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	if !slices.Contains(supportedFormats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: table, json, yaml)", opts.Format)
	}
	if opts.Concurrency < 0 {
		return fmt.Errorf("--concurrency must not be negative")
	}
	return nil
}

// newContainer builds the dependency container from the global flags.
func newContainer(opts CommonOptions) (*container.Container, error) {
	return container.New(container.Options{
		Logger:            slog.Default(),
		ConfigPath:        cfgFile,
		ImportConcurrency: opts.Concurrency,
	})
}
