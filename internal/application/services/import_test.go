package services

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileManager_Import(t *testing.T) {
	m := newTestManager(WithImportConcurrency(3))
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	seeds := []dto.ProfileSeed{
		{Username: "alice", Email: "alice@example.com"},
		{Username: "", Email: "nobody@example.com"},
		{Username: "bob", Email: "bob@example.com", LastLogin: &at},
		{Username: "carol", Email: "carol@@example.com"},
	}

	report, err := m.Import(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	require.Equal(t, 2, report.Succeeded())
	require.Equal(t, 2, report.Failed())

	assert.Equal(t, "alice", report.Profiles[0].Username())
	assert.Equal(t, "bob", report.Profiles[1].Username())
	assert.Equal(t, at, report.Profiles[1].LastLogin())

	assert.Equal(t, 1, report.Failures[0].Index)
	assert.ErrorIs(t, report.Failures[0], values.ErrInvalidUsername)
	assert.Equal(t, 3, report.Failures[1].Index)
	assert.Equal(t, "carol", report.Failures[1].Username)
	assert.ErrorIs(t, report.Failures[1], values.ErrInvalidEmail)

	for _, p := range report.Profiles {
		got, ok := m.GetProfile(p.Username())
		require.True(t, ok)
		assert.Same(t, p, got)
	}
	runtime.KeepAlive(report)
}

func TestProfileManager_Import_Many(t *testing.T) {
	m := newTestManager(WithImportConcurrency(8))
	seeds := make([]dto.ProfileSeed, 50)
	for i := range seeds {
		seeds[i] = dto.ProfileSeed{
			Username: fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
		}
	}

	report, err := m.Import(context.Background(), seeds)
	require.NoError(t, err)

	require.Len(t, report.Profiles, 50)
	for i, p := range report.Profiles {
		assert.Equal(t, fmt.Sprintf("user%d", i), p.Username(), "profiles keep seed order")
	}
	assert.Equal(t, 50, m.Stats().Entries)
	runtime.KeepAlive(report)
}

func TestProfileManager_Import_Cancelled(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := m.Import(ctx, []dto.ProfileSeed{
		{Username: "alice", Email: "alice@example.com"},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)

	assert.Equal(t, 0, report.Succeeded())
	require.Equal(t, 1, report.Failed())
	assert.ErrorIs(t, report.Failures[0], context.Canceled)
}

func TestProfileManager_Import_Empty(t *testing.T) {
	m := newTestManager()

	report, err := m.Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Profiles)
	assert.Empty(t, report.Failures)
}

func duplicateSeeds() []dto.ProfileSeed {
	return []dto.ProfileSeed{
		{Username: "dup", Email: "first@example.com"},
		{Username: "other", Email: "other@example.com"},
		{Username: "dup", Email: "second@example.com"},
	}
}

func TestProfileManager_Import_DuplicatesOverwriteInSeedOrder(t *testing.T) {
	for range 50 {
		m := newTestManager(WithImportConcurrency(4))

		report, err := m.Import(context.Background(), duplicateSeeds())
		require.NoError(t, err)
		require.Equal(t, 3, report.Succeeded())

		got, ok := m.GetProfile("dup")
		require.True(t, ok)
		assert.Equal(t, "second@example.com", got.Email(), "the later seed owns the entry")
		assert.Same(t, report.Profiles[2], got)
		runtime.KeepAlive(report)
	}
}

func TestProfileManager_Import_DuplicatesRejectInSeedOrder(t *testing.T) {
	for range 50 {
		m := newTestManager(WithImportConcurrency(4), WithDuplicatePolicy(DuplicateReject))

		report, err := m.Import(context.Background(), duplicateSeeds())
		require.NoError(t, err)
		require.Equal(t, 2, report.Succeeded())
		require.Equal(t, 1, report.Failed())

		assert.Equal(t, "first@example.com", report.Profiles[0].Email())
		assert.Equal(t, 2, report.Failures[0].Index)

		var dupErr *apperrors.DuplicateProfileError
		require.ErrorAs(t, report.Failures[0], &dupErr)
		assert.True(t, dupErr.ExistingID.Equals(report.Profiles[0].ID()))

		got, ok := m.GetProfile("dup")
		require.True(t, ok)
		assert.Same(t, report.Profiles[0], got)
		runtime.KeepAlive(report)
	}
}

func TestGroupByUsername(t *testing.T) {
	t.Parallel()

	groups := groupByUsername([]dto.ProfileSeed{
		{Username: "b"},
		{Username: "a"},
		{Username: "b"},
		{Username: ""},
		{Username: "a"},
		{Username: "b"},
	})

	assert.Equal(t, [][]int{{0, 2, 5}, {1, 4}, {3}}, groups)
	assert.Empty(t, groupByUsername(nil))
}
