// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"github.com/reglet-dev/profilecache/internal/domain/entities"
)

// CacheStats is a point-in-time view of cache counters.
type CacheStats struct {
	// Hits counts lookups that returned a live profile.
	Hits uint64
	// Misses counts lookups that returned nothing, including expired entries.
	Misses uint64
	// Expired counts entries dropped because their profile was collected.
	Expired uint64
	// Entries is the number of live entries.
	Entries int
}

// ProfileCache indexes profiles by username without owning them.
//
// An entry never keeps its profile alive. Once the profile is collected, or
// renamed so its username no longer matches the key, the entry behaves
// exactly as if it were absent.
type ProfileCache interface {
	// Put registers profile under its current username, replacing any entry.
	// It reports whether a different live profile was replaced.
	Put(profile *entities.UserProfile) (replaced bool)

	// PutIfAbsent registers profile only if no live profile holds the key.
	// When stored is false, existing is the live profile that holds it.
	PutIfAbsent(profile *entities.UserProfile) (existing *entities.UserProfile, stored bool)

	// Get returns the live profile for username.
	Get(username string) (*entities.UserProfile, bool)

	// Evict drops the entry for username and reports whether it was live.
	Evict(username string) bool

	// Sweep drops every dead or stale entry and returns how many were removed.
	Sweep() int

	// Len returns the number of live entries.
	Len() int

	// Stats returns the current counters.
	Stats() CacheStats
}
