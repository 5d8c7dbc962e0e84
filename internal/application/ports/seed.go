package ports

import "github.com/reglet-dev/profilecache/internal/application/dto"

// SeedLoader reads profile seeds from a file.
type SeedLoader interface {
	LoadFile(path string) ([]dto.ProfileSeed, error)
}

// ProfilePrompter collects profile fields from a user.
type ProfilePrompter interface {
	IsInteractive() bool
	PromptProfile(seed *dto.ProfileSeed) error
	NonInteractiveError(missing []string) error
}
