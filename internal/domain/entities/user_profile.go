// Package entities contains domain entities for the profile domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"sync"
	"time"

	"github.com/reglet-dev/profilecache/internal/domain/values"
)

// Field bindings shared by every UserProfile. All writes to the guarded
// fields go through these, including the writes made by the constructor.
var (
	usernameField  = values.BindField("username", values.ValidateUsername)
	emailField     = values.BindField("email", values.ValidateEmail)
	lastLoginField = values.BindField("last_login", values.ValidateLastLogin)
)

// UserProfile is one user's identity record.
//
// Invariants Enforced:
// - username always satisfies values.ValidateUsername
// - email always satisfies values.ValidateEmail
// - a rejected write leaves the previous value in place
//
// Each instance carries its own lock so a validate-then-store never
// interleaves with another writer on the same profile.
type UserProfile struct {
	createdAt        time.Time
	defaultLastLogin time.Time
	lastLogin        time.Time
	username         string
	email            string
	id               values.ProfileID
	mu               sync.RWMutex
	hasLastLogin     bool
}

// ProfileSnapshot is an immutable copy of a profile's state at one point in time.
type ProfileSnapshot struct {
	CreatedAt    time.Time
	LastLogin    time.Time
	Username     string
	Email        string
	ID           values.ProfileID
	HasLastLogin bool
}

// NewUserProfile validates username, then email, then lastLogin (when given)
// and returns the new profile. Nothing is constructed if any field is rejected.
//
// now supplies the creation time, which is also the last-login value reported
// while no explicit last login is set. A nil now falls back to time.Now.
func NewUserProfile(username, email string, lastLogin *time.Time, now func() time.Time) (*UserProfile, error) {
	if now == nil {
		now = time.Now
	}

	p := &UserProfile{id: values.NewProfileID()}

	if err := usernameField.Assign(&p.username, username); err != nil {
		return nil, err
	}
	if err := emailField.Assign(&p.email, email); err != nil {
		return nil, err
	}
	if lastLogin != nil {
		if err := lastLoginField.Assign(&p.lastLogin, *lastLogin); err != nil {
			return nil, err
		}
		p.hasLastLogin = true
	}

	if err := lastLoginField.Assign(&p.defaultLastLogin, now()); err != nil {
		return nil, err
	}
	p.createdAt = p.defaultLastLogin

	return p, nil
}

// ID returns the instance identity.
func (p *UserProfile) ID() values.ProfileID {
	return p.id
}

// CreatedAt returns when the profile was constructed.
func (p *UserProfile) CreatedAt() time.Time {
	return p.createdAt
}

// Username returns the profile key.
func (p *UserProfile) Username() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.username
}

// Email returns the current email address.
func (p *UserProfile) Email() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.email
}

// LastLogin returns the explicit last login if one is set, otherwise the
// creation-time default.
func (p *UserProfile) LastLogin() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastLoginLocked()
}

// HasLastLogin reports whether an explicit last login is set.
func (p *UserProfile) HasLastLogin() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasLastLogin
}

// SetUsername replaces the username.
// A cache keyed on the old username will stop returning this profile.
func (p *UserProfile) SetUsername(username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return usernameField.Assign(&p.username, username)
}

// SetEmail replaces the email address.
func (p *UserProfile) SetEmail(email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return emailField.Assign(&p.email, email)
}

// SetLastLogin records an explicit last login.
func (p *UserProfile) SetLastLogin(at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := lastLoginField.Assign(&p.lastLogin, at); err != nil {
		return err
	}
	p.hasLastLogin = true
	return nil
}

// ClearLastLogin drops the explicit last login; LastLogin falls back to the default.
func (p *UserProfile) ClearLastLogin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastLogin = time.Time{}
	p.hasLastLogin = false
}

// Snapshot returns a consistent copy of all fields.
func (p *UserProfile) Snapshot() ProfileSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ProfileSnapshot{
		ID:           p.id,
		Username:     p.username,
		Email:        p.email,
		LastLogin:    p.lastLoginLocked(),
		CreatedAt:    p.createdAt,
		HasLastLogin: p.hasLastLogin,
	}
}

func (p *UserProfile) lastLoginLocked() time.Time {
	if p.hasLastLogin {
		return p.lastLogin
	}
	return p.defaultLastLogin
}

// FieldNames lists the validated fields of a UserProfile in validation order.
func FieldNames() []string {
	return []string{usernameField.Name(), emailField.Name(), lastLoginField.Name()}
}
