package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/domain/values"
	"github.com/reglet-dev/profilecache/internal/infrastructure/config"
	"github.com/reglet-dev/profilecache/internal/infrastructure/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T, cfg *config.RuntimeConfig) *container.Container {
	t.Helper()
	if cfg == nil {
		cfg = &config.RuntimeConfig{Clock: config.ClockConfig{Fixed: "2000-01-01T00:00:00Z"}}
	}
	c, err := container.New(container.Options{
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Config: cfg,
	})
	require.NoError(t, err)
	return c
}

// fakePrompter fills seeds from a fixed answer set.
type fakePrompter struct {
	answer      dto.ProfileSeed
	interactive bool
	prompted    bool
}

func (p *fakePrompter) IsInteractive() bool { return p.interactive }

func (p *fakePrompter) PromptProfile(seed *dto.ProfileSeed) error {
	p.prompted = true
	if seed.Username == "" {
		seed.Username = p.answer.Username
	}
	if seed.Email == "" {
		seed.Email = p.answer.Email
	}
	return nil
}

func (p *fakePrompter) NonInteractiveError(missing []string) error {
	return errors.New("not interactive")
}

func TestCommonOptions_ValidateFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    CommonOptions
		wantErr string
	}{
		{"defaults", DefaultCommonOptions(), ""},
		{"json", CommonOptions{Format: "json"}, ""},
		{"bad format", CommonOptions{Format: "sarif"}, "invalid format: sarif"},
		{"negative concurrency", CommonOptions{Format: "table", Concurrency: -1}, "--concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.ValidateFlags()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRunCreate(t *testing.T) {
	c := newTestContainer(t, nil)
	buf := &bytes.Buffer{}

	opts := createOptions{CommonOptions: CommonOptions{Format: "json"}}
	require.NoError(t, runCreate(buf, c, []string{"johndoe", "john@example.com"}, opts))

	var views []dto.ProfileView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "johndoe", views[0].Username)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), views[0].LastLogin)
	assert.False(t, views[0].HasLastLogin)
}

func TestRunCreate_LastLogin(t *testing.T) {
	c := newTestContainer(t, nil)
	buf := &bytes.Buffer{}

	opts := createOptions{
		CommonOptions: CommonOptions{Format: "json"},
		LastLogin:     "2024-01-02T03:04:05Z",
	}
	require.NoError(t, runCreate(buf, c, []string{"johndoe", "john@example.com"}, opts))

	var views []dto.ProfileView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 1)
	assert.True(t, views[0].HasLastLogin)

	opts.LastLogin = "yesterday"
	err := runCreate(buf, c, []string{"johndoe", "john@example.com"}, opts)
	assert.ErrorContains(t, err, "--last-login")
}

func TestRunCreate_InvalidEmail(t *testing.T) {
	c := newTestContainer(t, nil)

	err := runCreate(&bytes.Buffer{}, c, []string{"johndoe", "a@b..com"}, createOptions{CommonOptions: DefaultCommonOptions()})

	assert.ErrorIs(t, err, values.ErrInvalidEmail)
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRunCreate_MissingArgs(t *testing.T) {
	c := newTestContainer(t, nil)
	prompter := &fakePrompter{}
	c.SetPrompter(prompter)

	err := runCreate(&bytes.Buffer{}, c, []string{"johndoe"}, createOptions{CommonOptions: DefaultCommonOptions()})
	assert.EqualError(t, err, "not interactive")
	assert.False(t, prompter.prompted)
}

func TestRunCreate_Interactive(t *testing.T) {
	c := newTestContainer(t, nil)
	prompter := &fakePrompter{
		interactive: true,
		answer:      dto.ProfileSeed{Username: "prompted", Email: "prompted@example.com"},
	}
	c.SetPrompter(prompter)
	buf := &bytes.Buffer{}

	opts := createOptions{CommonOptions: DefaultCommonOptions(), Interactive: true}
	require.NoError(t, runCreate(buf, c, nil, opts))

	assert.True(t, prompter.prompted)
	assert.Contains(t, buf.String(), "prompted@example.com")
}

func TestRunCreate_InteractiveWithoutTerminal(t *testing.T) {
	c := newTestContainer(t, nil)
	c.SetPrompter(&fakePrompter{interactive: false})

	opts := createOptions{CommonOptions: DefaultCommonOptions(), Interactive: true}
	assert.EqualError(t, runCreate(&bytes.Buffer{}, c, nil, opts), "not interactive")
}

func writeSeeds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunImport(t *testing.T) {
	c := newTestContainer(t, nil)
	path := writeSeeds(t, `
version: "1.0.0"
profiles:
  - username: alice
    email: alice@example.com
  - username: bob
    email: bob@example.com
    last_login: "2024-01-02T03:04:05Z"
`)
	buf := &bytes.Buffer{}

	require.NoError(t, runImport(context.Background(), buf, c, path, "json"))

	var report dto.ReportView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Failed)
}

func TestRunImport_RejectedSeeds(t *testing.T) {
	c := newTestContainer(t, nil)
	path := writeSeeds(t, `
version: "1.0.0"
profiles:
  - username: alice
    email: alice@example.com
  - username: "  "
    email: blank@example.com
`)
	buf := &bytes.Buffer{}

	err := runImport(context.Background(), buf, c, path, "table")
	assert.EqualError(t, err, "1 of 2 seeds rejected")
	assert.Contains(t, buf.String(), "Rejected:")
	assert.Contains(t, buf.String(), "alice")
}

func TestRunImport_CancelledPrintsPartialReport(t *testing.T) {
	c := newTestContainer(t, nil)
	path := writeSeeds(t, `
version: "1.0.0"
profiles:
  - username: alice
    email: alice@example.com
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf := &bytes.Buffer{}

	err := runImport(ctx, buf, c, path, "json")
	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorContains(t, err, "import interrupted")

	var report dto.ReportView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "alice", report.Failures[0].Username)
}

func TestRunImport_Errors(t *testing.T) {
	c := newTestContainer(t, nil)

	err := runImport(context.Background(), &bytes.Buffer{}, c, filepath.Join(t.TempDir(), "missing.yaml"), "table")
	assert.ErrorContains(t, err, "failed to open seed file")

	path := writeSeeds(t, "version: \"3.0.0\"\nprofiles: []\n")
	err = runImport(context.Background(), &bytes.Buffer{}, c, path, "table")
	assert.ErrorContains(t, err, "not supported")

	path = writeSeeds(t, "version: \"1.0.0\"\nprofiles: []\n")
	err = runImport(context.Background(), &bytes.Buffer{}, c, path, "xml")
	assert.ErrorContains(t, err, "unknown format: xml")
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		field   string
		value   string
		wantErr error
	}{
		{"valid username", "username", "john_doe", nil},
		{"blank username", "username", "   ", values.ErrInvalidUsername},
		{"valid email", "email", "a@b.com", nil},
		{"double at", "email", "a@@b.com", values.ErrInvalidEmail},
		{"no dot", "email", "a@bcom", values.ErrInvalidEmail},
		{"space", "email", "a b@c.com", values.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			err := runValidate(buf, tt.field, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, buf.String())
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "is valid")
		})
	}

	assert.ErrorContains(t, runValidate(&bytes.Buffer{}, "age", "3"), "unknown field: age")
}

func TestVersionCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	versionCmd.SetOut(buf)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, buf.String(), "profilectl version ")
}
