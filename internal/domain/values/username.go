package values

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateUsername checks that value is a usable profile key.
// Only Unicode letters and numbers, '-' and '_' are accepted. Surrounding
// whitespace is never trimmed from the stored value; it is only used to reject blank input.
func ValidateUsername(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: cannot be empty", ErrInvalidUsername)
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: cannot be blank", ErrInvalidUsername)
	}

	for i, r := range value {
		if !isUsernameRune(r) {
			return "", fmt.Errorf("%w: character %q at position %d is not allowed", ErrInvalidUsername, r, i)
		}
	}

	return value, nil
}

func isUsernameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_'
}
