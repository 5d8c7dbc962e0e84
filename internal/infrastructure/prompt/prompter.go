// Package prompt collects profile fields interactively.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	"github.com/reglet-dev/profilecache/internal/application/ports"
	"github.com/reglet-dev/profilecache/internal/domain/values"
)

// Ensure interface compliance
var _ ports.ProfilePrompter = (*TerminalPrompter)(nil)

// TerminalPrompter asks for missing profile fields on the terminal.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	// Check if stdin is a terminal (that's what we're reading from)
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if it's a character device (terminal) and not a pipe/file
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// PromptProfile fills seed interactively. Values already set on seed are
// offered as defaults. Every input is checked with the same validators the
// profile uses, so the form cannot be submitted with a rejected value.
func (p *TerminalPrompter) PromptProfile(seed *dto.ProfileSeed) error {
	lastLogin := ""
	if seed.LastLogin != nil {
		lastLogin = seed.LastLogin.Format(time.RFC3339)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Letters, digits, '-' and '_'").
				Value(&seed.Username).
				Validate(validateWith(values.ValidateUsername)),
			huh.NewInput().
				Title("Email").
				Value(&seed.Email).
				Validate(validateWith(values.ValidateEmail)),
			huh.NewInput().
				Title("Last login").
				Description("RFC3339, leave empty to use the current time").
				Value(&lastLogin).
				Validate(validateLastLogin),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("profile prompt failed: %w", err)
	}

	at, err := parseLastLogin(lastLogin)
	if err != nil {
		return err
	}
	seed.LastLogin = at
	return nil
}

// NonInteractiveError explains which arguments are missing when no terminal is attached.
func (p *TerminalPrompter) NonInteractiveError(missing []string) error {
	var sb strings.Builder
	sb.WriteString("missing required arguments:\n")
	for _, name := range missing {
		fmt.Fprintf(&sb, "  - %s\n", name)
	}
	sb.WriteString("\nTo continue, either:\n")
	sb.WriteString("  1. Run interactively (in a terminal) with --interactive\n")
	sb.WriteString("  2. Pass the arguments on the command line\n")
	return fmt.Errorf("%s", sb.String())
}

// validateWith adapts a field validator to huh's Validate signature.
func validateWith(validate values.Validator[string]) func(string) error {
	return func(s string) error {
		_, err := validate(s)
		return err
	}
}

func validateLastLogin(s string) error {
	_, err := parseLastLogin(s)
	return err
}

func parseLastLogin(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("last login must be RFC3339: %w", err)
	}
	at, err = values.ValidateLastLogin(at)
	if err != nil {
		return nil, err
	}
	return &at, nil
}
