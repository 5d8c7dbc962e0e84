// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/reglet-dev/profilecache/internal/domain/entities"
	"github.com/reglet-dev/profilecache/internal/domain/repositories"
)

// Ensure interface compliance
var _ repositories.ProfileCache = (*WeakProfileCache)(nil)

// WeakProfileCache is an in-memory ProfileCache holding weak pointers only.
//
// Dead entries are removed on access, by Sweep, and by a runtime cleanup
// registered for each stored profile. All map access happens under one mutex,
// so a lookup never observes an entry as both present and dead.
type WeakProfileCache struct {
	entries   map[string]weak.Pointer[entities.UserProfile]
	onExpired func(username string)
	hits      atomic.Uint64
	misses    atomic.Uint64
	expired   atomic.Uint64
	mu        sync.Mutex
}

// WeakCacheOption configures a WeakProfileCache.
type WeakCacheOption func(*WeakProfileCache)

// WithExpiredHook registers fn to be called with the key of every entry
// dropped because its profile was collected. fn may run on a runtime
// cleanup goroutine and must not block.
func WithExpiredHook(fn func(username string)) WeakCacheOption {
	return func(c *WeakProfileCache) {
		c.onExpired = fn
	}
}

// NewWeakProfileCache creates an empty cache.
func NewWeakProfileCache(opts ...WeakCacheOption) *WeakProfileCache {
	c := &WeakProfileCache{
		entries: make(map[string]weak.Pointer[entities.UserProfile]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cleanupArg struct {
	ref weak.Pointer[entities.UserProfile]
	key string
}

// entryState classifies what a stored weak pointer currently resolves to.
type entryState int

const (
	entryLive entryState = iota
	entryDead
	entryStale
)

func resolve(key string, ref weak.Pointer[entities.UserProfile]) (*entities.UserProfile, entryState) {
	profile := ref.Value()
	if profile == nil {
		return nil, entryDead
	}
	if profile.Username() != key {
		return nil, entryStale
	}
	return profile, entryLive
}

// Put registers profile under its current username.
func (c *WeakProfileCache) Put(profile *entities.UserProfile) bool {
	key := profile.Username()
	ref := weak.Make(profile)

	c.mu.Lock()
	replaced := false
	if prev, ok := c.entries[key]; ok && prev != ref {
		_, state := resolve(key, prev)
		replaced = state == entryLive
	}
	c.entries[key] = ref
	c.mu.Unlock()

	c.watch(profile, key, ref)
	return replaced
}

// PutIfAbsent registers profile unless a live profile already holds its username.
func (c *WeakProfileCache) PutIfAbsent(profile *entities.UserProfile) (*entities.UserProfile, bool) {
	key := profile.Username()
	ref := weak.Make(profile)

	c.mu.Lock()
	if prev, ok := c.entries[key]; ok {
		if existing, state := resolve(key, prev); state == entryLive && existing != profile {
			c.mu.Unlock()
			return existing, false
		}
	}
	c.entries[key] = ref
	c.mu.Unlock()

	c.watch(profile, key, ref)
	return nil, true
}

// watch arranges for the entry to be dropped once profile is collected.
func (c *WeakProfileCache) watch(profile *entities.UserProfile, key string, ref weak.Pointer[entities.UserProfile]) {
	runtime.AddCleanup(profile, c.expire, cleanupArg{key: key, ref: ref})
}

// expire runs after a stored profile has been collected.
func (c *WeakProfileCache) expire(arg cleanupArg) {
	c.mu.Lock()
	current, ok := c.entries[arg.key]
	if !ok || current != arg.ref {
		// Replaced, evicted, or already dropped on access.
		c.mu.Unlock()
		return
	}
	delete(c.entries, arg.key)
	c.mu.Unlock()

	c.expired.Add(1)
	c.notifyExpired(arg.key)
}

// Get returns the live profile for username.
func (c *WeakProfileCache) Get(username string) (*entities.UserProfile, bool) {
	c.mu.Lock()
	ref, ok := c.entries[username]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}

	profile, state := resolve(username, ref)
	if state != entryLive {
		delete(c.entries, username)
	}
	c.mu.Unlock()

	switch state {
	case entryLive:
		c.hits.Add(1)
		return profile, true
	case entryDead:
		c.expired.Add(1)
		c.notifyExpired(username)
	}
	c.misses.Add(1)
	return nil, false
}

// Evict drops the entry for username.
func (c *WeakProfileCache) Evict(username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ref, ok := c.entries[username]
	if !ok {
		return false
	}
	delete(c.entries, username)

	_, state := resolve(username, ref)
	return state == entryLive
}

// Sweep drops dead and stale entries.
func (c *WeakProfileCache) Sweep() int {
	var expiredKeys []string
	removed := 0

	c.mu.Lock()
	for key, ref := range c.entries {
		_, state := resolve(key, ref)
		if state == entryLive {
			continue
		}
		delete(c.entries, key)
		removed++
		if state == entryDead {
			expiredKeys = append(expiredKeys, key)
		}
	}
	c.mu.Unlock()

	for _, key := range expiredKeys {
		c.expired.Add(1)
		c.notifyExpired(key)
	}
	return removed
}

// Len counts live entries without modifying the cache.
func (c *WeakProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, ref := range c.entries {
		if _, state := resolve(key, ref); state == entryLive {
			n++
		}
	}
	return n
}

// Stats returns the current counters.
func (c *WeakProfileCache) Stats() repositories.CacheStats {
	return repositories.CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Expired: c.expired.Load(),
		Entries: c.Len(),
	}
}

func (c *WeakProfileCache) notifyExpired(key string) {
	if c.onExpired != nil {
		c.onExpired(key)
	}
}
