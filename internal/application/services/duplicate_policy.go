package services

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what CreateProfile does when a live profile
// already holds the requested username.
type DuplicatePolicy int

const (
	// DuplicateOverwrite replaces the cache entry with the new profile.
	// The previous instance stays valid for whoever still owns it.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject fails with a DuplicateProfileError.
	DuplicateReject
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateOverwrite:
		return "overwrite"
	case DuplicateReject:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy parses "overwrite" or "reject" (case-insensitive).
// An empty string selects DuplicateOverwrite.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return DuplicateOverwrite, nil
	case "reject":
		return DuplicateReject, nil
	default:
		return DuplicateOverwrite, fmt.Errorf("unknown duplicate policy %q (supported: overwrite, reject)", s)
	}
}
