package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	"github.com/reglet-dev/profilecache/internal/application/ports"
)

// Ensure interface compliance
var _ ports.SeedLoader = (*SeedLoader)(nil)

// SupportedSeedVersions is the constraint a seed file's version must satisfy.
const SupportedSeedVersions = "^1"

//go:embed seed.schema.json
var seedSchema []byte

// seedFile mirrors the on-disk layout after schema validation.
type seedFile struct {
	Version  string       `json:"version"`
	Profiles []seedRecord `json:"profiles"`
}

type seedRecord struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	LastLogin string `json:"last_login"`
}

// SeedLoader reads profile seed files.
type SeedLoader struct {
	schema     *jsonschema.Schema
	constraint *semver.Constraints
}

// NewSeedLoader compiles the embedded seed schema.
func NewSeedLoader() (*SeedLoader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("seed.schema.json", bytes.NewReader(seedSchema)); err != nil {
		return nil, fmt.Errorf("failed to add seed schema resource: %w", err)
	}
	schema, err := compiler.Compile("seed.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile seed schema: %w", err)
	}

	constraint, err := semver.NewConstraint(SupportedSeedVersions)
	if err != nil {
		return nil, fmt.Errorf("invalid seed version constraint: %w", err)
	}

	return &SeedLoader{schema: schema, constraint: constraint}, nil
}

// LoadFile loads seeds from a YAML file.
func (l *SeedLoader) LoadFile(path string) ([]dto.ProfileSeed, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open seed directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return l.Load(file)
}

// Load decodes, validates and converts a seed document.
func (l *SeedLoader) Load(r io.Reader) ([]dto.ProfileSeed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode seed YAML: %w", err)
	}

	// Normalize YAML values (timestamps, integer widths) to their JSON forms
	// so the schema sees the same types a JSON document would produce.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize seed document: %w", err)
	}

	var doc any
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("failed to normalize seed document: %w", err)
	}
	if err := l.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, formatSchemaValidationError(validationErr)
		}
		return nil, fmt.Errorf("seed validation failed: %w", err)
	}

	var file seedFile
	if err := json.Unmarshal(normalized, &file); err != nil {
		return nil, fmt.Errorf("failed to decode seed document: %w", err)
	}

	if err := l.checkVersion(file.Version); err != nil {
		return nil, err
	}

	seeds := make([]dto.ProfileSeed, 0, len(file.Profiles))
	for i, rec := range file.Profiles {
		seed := dto.ProfileSeed{Username: rec.Username, Email: rec.Email}
		if rec.LastLogin != "" {
			at, err := time.Parse(time.RFC3339, rec.LastLogin)
			if err != nil {
				return nil, fmt.Errorf("profiles[%d].last_login must be RFC3339: %w", i, err)
			}
			seed.LastLogin = &at
		}
		seeds = append(seeds, seed)
	}

	return seeds, nil
}

func (l *SeedLoader) checkVersion(raw string) error {
	version, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("invalid seed file version %q: %w", raw, err)
	}
	if !l.constraint.Check(version) {
		return fmt.Errorf("seed file version %s is not supported (requires %s)", version, SupportedSeedVersions)
	}
	return nil
}

// formatSchemaValidationError flattens a schema error tree into one message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("seed validation failed")
	}

	return fmt.Errorf("seed validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
