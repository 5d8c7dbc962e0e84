package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/domain/entities"
)

// Import creates a profile for every seed, running up to the configured
// import concurrency at once. A rejected seed is recorded in the report and
// does not stop the others.
//
// Seeds sharing a username are created one after another in seed order, so
// the duplicate policy sees them as a sequential CreateProfile loop would:
// the last one wins under overwrite, the later ones fail under reject.
//
// Seeds not yet started when ctx is cancelled are recorded as failures and
// ctx.Err() is returned alongside the partial report.
func (m *ProfileManager) Import(ctx context.Context, seeds []dto.ProfileSeed) (*dto.ImportReport, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.importConcurrency)

	created := make([]*entities.UserProfile, len(seeds))
	failures := make([]*apperrors.ImportError, len(seeds))

	for _, indexes := range groupByUsername(seeds) {
		g.Go(func() error {
			for _, i := range indexes {
				seed := seeds[i]
				if err := gCtx.Err(); err != nil {
					failures[i] = apperrors.NewImportError(i, seed.Username, err)
					continue
				}

				profile, err := m.CreateProfile(seed.Username, seed.Email, seed.LastLogin)
				if err != nil {
					m.logger.Warn("seed rejected", "index", i, "username", seed.Username, "error", err)
					failures[i] = apperrors.NewImportError(i, seed.Username, err)
					continue
				}
				created[i] = profile
			}
			return nil
		})
	}

	_ = g.Wait()

	report := &dto.ImportReport{Total: len(seeds)}
	for i := range seeds {
		if created[i] != nil {
			report.Profiles = append(report.Profiles, created[i])
		}
		if failures[i] != nil {
			report.Failures = append(report.Failures, failures[i])
		}
	}

	m.logger.Debug("import finished",
		"total", report.Total,
		"created", report.Succeeded(),
		"failed", report.Failed())

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// groupByUsername returns seed indexes grouped by username. Groups are
// ordered by first appearance and each keeps seed order.
func groupByUsername(seeds []dto.ProfileSeed) [][]int {
	slot := make(map[string]int, len(seeds))
	var groups [][]int
	for i, seed := range seeds {
		g, ok := slot[seed.Username]
		if !ok {
			g = len(groups)
			slot[seed.Username] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
