// Package services contains application use cases.
package services

import (
	"errors"
	"log/slog"
	"runtime"
	"time"

	apperrors "github.com/reglet-dev/profilecache/internal/application/errors"
	"github.com/reglet-dev/profilecache/internal/domain/entities"
	"github.com/reglet-dev/profilecache/internal/domain/repositories"
	domainservices "github.com/reglet-dev/profilecache/internal/domain/services"
	"github.com/reglet-dev/profilecache/internal/domain/values"
	"github.com/reglet-dev/profilecache/internal/infrastructure/persistence/memory"
)

// ProfileManager creates profiles and indexes them by username.
//
// The manager never owns the profiles it returns. A profile stays
// retrievable through GetProfile only while some caller holds it.
type ProfileManager struct {
	cache             repositories.ProfileCache
	now               func() time.Time
	logger            *slog.Logger
	admission         *domainservices.AdmissionPolicy
	duplicates        DuplicatePolicy
	importConcurrency int
}

// ManagerOption configures a ProfileManager.
type ManagerOption func(*ProfileManager)

// WithClock sets the time source used for default last-login values.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *ProfileManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithCache replaces the default weak cache.
func WithCache(cache repositories.ProfileCache) ManagerOption {
	return func(m *ProfileManager) {
		if cache != nil {
			m.cache = cache
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *ProfileManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithAdmissionPolicy sets rules every new profile must satisfy.
func WithAdmissionPolicy(policy *domainservices.AdmissionPolicy) ManagerOption {
	return func(m *ProfileManager) {
		m.admission = policy
	}
}

// WithDuplicatePolicy sets how CreateProfile treats an already cached username.
func WithDuplicatePolicy(policy DuplicatePolicy) ManagerOption {
	return func(m *ProfileManager) {
		m.duplicates = policy
	}
}

// WithImportConcurrency bounds the number of seeds Import processes at once.
func WithImportConcurrency(n int) ManagerOption {
	return func(m *ProfileManager) {
		if n > 0 {
			m.importConcurrency = n
		}
	}
}

// NewProfileManager creates a manager backed by a weak cache unless
// WithCache says otherwise.
func NewProfileManager(opts ...ManagerOption) *ProfileManager {
	m := &ProfileManager{
		now:               time.Now,
		logger:            slog.Default(),
		duplicates:        DuplicateOverwrite,
		importConcurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = memory.NewWeakProfileCache()
	}
	return m
}

// CreateProfile validates every field, applies the admission policy and
// registers the new profile under its username.
//
// Validation failures return *apperrors.ValidationError and leave the cache
// untouched. With DuplicateReject, a live profile under the same username
// yields *apperrors.DuplicateProfileError.
func (m *ProfileManager) CreateProfile(username, email string, lastLogin *time.Time) (*entities.UserProfile, error) {
	profile, err := entities.NewUserProfile(username, email, lastLogin, m.now)
	if err != nil {
		return nil, toValidationError(err)
	}

	if err := m.admission.Admit(profile.Snapshot()); err != nil {
		return nil, apperrors.NewValidationError("profile", err.Error(), err)
	}

	switch m.duplicates {
	case DuplicateReject:
		if existing, stored := m.cache.PutIfAbsent(profile); !stored {
			m.logger.Debug("duplicate profile rejected",
				"username", username,
				"existing_id", existing.ID().String())
			return nil, apperrors.NewDuplicateProfileError(username, existing.ID())
		}
	default:
		if replaced := m.cache.Put(profile); replaced {
			m.logger.Debug("profile entry replaced", "username", username, "id", profile.ID().String())
		}
	}

	m.logger.Debug("profile created", "username", username, "id", profile.ID().String())
	return profile, nil
}

// GetProfile returns the live profile registered under username.
// Repeated calls return the same instance while it is alive.
func (m *ProfileManager) GetProfile(username string) (*entities.UserProfile, bool) {
	return m.cache.Get(username)
}

// FindProfile is GetProfile with absence reported as
// *apperrors.ProfileNotFoundError.
func (m *ProfileManager) FindProfile(username string) (*entities.UserProfile, error) {
	profile, ok := m.cache.Get(username)
	if !ok {
		return nil, apperrors.NewProfileNotFoundError(username)
	}
	return profile, nil
}

// RemoveProfile drops the cache entry for username and reports whether it
// held a live profile. The profile itself is not modified.
func (m *ProfileManager) RemoveProfile(username string) bool {
	removed := m.cache.Evict(username)
	if removed {
		m.logger.Debug("profile entry evicted", "username", username)
	}
	return removed
}

// Sweep purges dead entries and returns how many were removed.
func (m *ProfileManager) Sweep() int {
	return m.cache.Sweep()
}

// Stats returns the cache counters.
func (m *ProfileManager) Stats() repositories.CacheStats {
	return m.cache.Stats()
}

// toValidationError lifts a field error into the application error type
// while keeping the validator's sentinel reachable through errors.Is.
func toValidationError(err error) error {
	var fieldErr *values.FieldError
	if errors.As(err, &fieldErr) {
		return apperrors.NewValidationError(fieldErr.Field, fieldErr.Err.Error(), fieldErr)
	}
	return apperrors.NewValidationError("profile", err.Error(), err)
}
