// Package values contains domain value objects and the field validators
// that guard user profile data.
package values

import "github.com/google/uuid"

// ProfileID identifies one profile instance.
// Two profiles created for the same username carry different IDs, so a
// replaced or recreated entry is told apart from the one it displaced.
type ProfileID struct {
	value uuid.UUID
}

// NewProfileID creates a new random profile ID.
func NewProfileID() ProfileID {
	return ProfileID{value: uuid.New()}
}

func (p ProfileID) String() string {
	return p.value.String()
}

// IsZero reports whether p was never assigned.
func (p ProfileID) IsZero() bool {
	return p.value == uuid.Nil
}

// Equals checks if two ProfileIDs are equal.
func (p ProfileID) Equals(other ProfileID) bool {
	return p.value == other.value
}
