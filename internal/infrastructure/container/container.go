// Package container provides dependency injection for the application.
package container

import (
	"log/slog"

	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/application/ports"
	"github.com/reglet-dev/profilecache/internal/application/services"
	domainservices "github.com/reglet-dev/profilecache/internal/domain/services"
	"github.com/reglet-dev/profilecache/internal/infrastructure/config"
	"github.com/reglet-dev/profilecache/internal/infrastructure/output"
	"github.com/reglet-dev/profilecache/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/profilecache/internal/infrastructure/prompt"
)

// Container holds all application dependencies.
type Container struct {
	manager    *services.ProfileManager
	seedLoader ports.SeedLoader
	formatters ports.OutputFormatterFactory
	prompter   ports.ProfilePrompter
	config     *config.RuntimeConfig
	logger     *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// Config is used as-is when set; otherwise it is loaded from ConfigPath.
	Config     *config.RuntimeConfig
	ConfigPath string
	// ImportConcurrency overrides the configured value when positive.
	ImportConcurrency int
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadRuntimeConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	if opts.ImportConcurrency > 0 {
		cfg.Import.Concurrency = opts.ImportConcurrency
	}

	duplicates, err := cfg.DuplicatePolicy()
	if err != nil {
		return nil, apperrors.NewConfigurationError("cache", "invalid duplicate_policy", err)
	}
	now, err := cfg.Now()
	if err != nil {
		return nil, apperrors.NewConfigurationError("clock", "invalid fixed time", err)
	}

	// Create domain services
	admission, err := domainservices.NewAdmissionPolicy(cfg.AdmissionRules())
	if err != nil {
		return nil, apperrors.NewConfigurationError("admission", "invalid rule", err)
	}

	logger := opts.Logger
	cache := memory.NewWeakProfileCache(memory.WithExpiredHook(func(username string) {
		logger.Debug("profile collected, cache entry dropped", "username", username)
	}))

	manager := services.NewProfileManager(
		services.WithCache(cache),
		services.WithClock(now),
		services.WithLogger(logger),
		services.WithAdmissionPolicy(admission),
		services.WithDuplicatePolicy(duplicates),
		services.WithImportConcurrency(cfg.Import.Concurrency),
	)

	seedLoader, err := config.NewSeedLoader()
	if err != nil {
		return nil, err
	}

	logger.Debug("container initialized",
		"duplicate_policy", duplicates.String(),
		"import_concurrency", cfg.Import.Concurrency,
		"admission_rules", admission.Len())

	return &Container{
		manager:    manager,
		seedLoader: seedLoader,
		formatters: output.NewFormatterFactory(),
		prompter:   prompt.NewTerminalPrompter(),
		config:     cfg,
		logger:     logger,
	}, nil
}

// ProfileManager returns the profile manager.
func (c *Container) ProfileManager() *services.ProfileManager {
	return c.manager
}

// SeedLoader returns the seed file loader.
func (c *Container) SeedLoader() ports.SeedLoader {
	return c.seedLoader
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() ports.OutputFormatterFactory {
	return c.formatters
}

// Prompter returns the interactive prompter.
func (c *Container) Prompter() ports.ProfilePrompter {
	return c.prompter
}

// SetPrompter replaces the prompter.
func (c *Container) SetPrompter(p ports.ProfilePrompter) {
	c.prompter = p
}

// Config returns the runtime configuration.
func (c *Container) Config() *config.RuntimeConfig {
	return c.config
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
