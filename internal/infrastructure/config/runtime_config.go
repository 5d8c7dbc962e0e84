// Package config provides infrastructure for loading runtime settings and
// profile seed files.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/application/services"
	domainservices "github.com/reglet-dev/profilecache/internal/domain/services"
)

// EnvPrefix is the prefix for environment overrides, e.g. PROFILECTL_IMPORT_CONCURRENCY.
const EnvPrefix = "PROFILECTL"

// RuntimeConfig aggregates all runtime configuration.
// This is a value object that flows through the system.
type RuntimeConfig struct {
	Admission AdmissionConfig `mapstructure:"admission"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Clock     ClockConfig     `mapstructure:"clock"`
	Import    ImportConfig    `mapstructure:"import"`
}

// CacheConfig controls the profile cache.
type CacheConfig struct {
	// DuplicatePolicy is "overwrite" or "reject".
	DuplicatePolicy string `mapstructure:"duplicate_policy"`
}

// ImportConfig controls batch imports.
type ImportConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// AdmissionConfig lists the rules new profiles must satisfy.
type AdmissionConfig struct {
	Rules []AdmissionRuleConfig `mapstructure:"rules"`
}

// AdmissionRuleConfig is one named expr-lang expression.
type AdmissionRuleConfig struct {
	Name       string `mapstructure:"name"`
	Expression string `mapstructure:"expression"`
}

// ClockConfig substitutes the time source.
type ClockConfig struct {
	// Fixed is an RFC3339 timestamp. When set, every "now" reads this value.
	Fixed string `mapstructure:"fixed"`
}

// LoadRuntimeConfig reads configuration from path (or $HOME/.profilectl.yaml
// when path is empty) and PROFILECTL_* environment variables.
// A missing default config file is not an error; a missing explicit one is.
func LoadRuntimeConfig(path string) (*RuntimeConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".profilectl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, apperrors.NewConfigurationError("file", "failed to read config", err)
		}
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigurationError("file", "failed to decode config", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.duplicate_policy", services.DuplicateOverwrite.String())
	v.SetDefault("import.concurrency", runtime.NumCPU())
	v.SetDefault("clock.fixed", "")
}

// ApplyDefaults applies defaults for zero values.
func (r *RuntimeConfig) ApplyDefaults() {
	if r.Cache.DuplicatePolicy == "" {
		r.Cache.DuplicatePolicy = services.DuplicateOverwrite.String()
	}
	if r.Import.Concurrency <= 0 {
		r.Import.Concurrency = runtime.NumCPU()
	}
}

// Validate checks every setting that can be checked without building components.
func (r *RuntimeConfig) Validate() error {
	if _, err := r.DuplicatePolicy(); err != nil {
		return apperrors.NewConfigurationError("cache", "invalid duplicate_policy", err)
	}
	if _, err := r.Now(); err != nil {
		return apperrors.NewConfigurationError("clock", "invalid fixed time", err)
	}
	for i, rule := range r.Admission.Rules {
		if strings.TrimSpace(rule.Expression) == "" {
			return apperrors.NewConfigurationError("admission",
				fmt.Sprintf("rule %d (%s) has no expression", i, rule.Name), nil)
		}
	}
	return nil
}

// DuplicatePolicy parses the configured duplicate policy.
func (r *RuntimeConfig) DuplicatePolicy() (services.DuplicatePolicy, error) {
	return services.ParseDuplicatePolicy(r.Cache.DuplicatePolicy)
}

// Now returns the configured time source: time.Now, or a constant clock when
// clock.fixed is set.
func (r *RuntimeConfig) Now() (func() time.Time, error) {
	if r.Clock.Fixed == "" {
		return time.Now, nil
	}
	fixed, err := time.Parse(time.RFC3339, r.Clock.Fixed)
	if err != nil {
		return nil, fmt.Errorf("clock.fixed must be RFC3339: %w", err)
	}
	return func() time.Time { return fixed }, nil
}

// AdmissionRules converts the configured rules to domain rules.
func (r *RuntimeConfig) AdmissionRules() []domainservices.AdmissionRule {
	rules := make([]domainservices.AdmissionRule, 0, len(r.Admission.Rules))
	for _, rule := range r.Admission.Rules {
		rules = append(rules, domainservices.AdmissionRule{
			Name:       rule.Name,
			Expression: rule.Expression,
		})
	}
	return rules
}
