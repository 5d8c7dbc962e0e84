package values

import (
	"fmt"
	"time"
)

// ValidateLastLogin rejects the zero time and normalizes accepted values to UTC.
func ValidateLastLogin(value time.Time) (time.Time, error) {
	if value.IsZero() {
		return time.Time{}, fmt.Errorf("%w: timestamp is not set", ErrInvalidLastLogin)
	}
	return value.UTC(), nil
}
