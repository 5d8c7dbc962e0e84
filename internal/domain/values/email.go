package values

import (
	"fmt"
	"strings"
)

// ValidateEmail checks the structure of an email address and returns it unchanged.
//
// Checks run in a fixed order and stop at the first violation:
//   - exactly one '@' separating a non-empty local part and domain
//   - the domain has at least two non-empty dot-separated labels
//   - no spaces and no consecutive dots in either part
//   - the local part neither starts nor ends with a dot and only uses [A-Za-z0-9.+_-]
//   - domain labels only use [A-Za-z0-9-] and neither start nor end with '-'
func ValidateEmail(value string) (string, error) {
	if value == "" {
		return "", invalidEmail("cannot be empty")
	}

	if n := strings.Count(value, "@"); n != 1 {
		return "", invalidEmail(fmt.Sprintf("must contain exactly one @, found %d", n))
	}

	local, domain, _ := strings.Cut(value, "@")
	if local == "" {
		return "", invalidEmail("local part cannot be empty")
	}
	if domain == "" {
		return "", invalidEmail("domain cannot be empty")
	}

	if !strings.Contains(domain, ".") {
		return "", invalidEmail("domain must contain a dot")
	}
	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if label == "" {
			return "", invalidEmail("domain labels cannot be empty")
		}
	}

	if strings.Contains(local, " ") || strings.Contains(domain, " ") {
		return "", invalidEmail("cannot contain spaces")
	}
	if strings.Contains(local, "..") || strings.Contains(domain, "..") {
		return "", invalidEmail("cannot contain consecutive dots")
	}

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return "", invalidEmail("local part cannot start or end with a dot")
	}
	for _, r := range local {
		if !isLocalRune(r) {
			return "", invalidEmail(fmt.Sprintf("local part contains invalid character %q", r))
		}
	}

	for _, label := range labels {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", invalidEmail(fmt.Sprintf("domain label %q cannot start or end with a hyphen", label))
		}
		for _, r := range label {
			if !isLabelRune(r) {
				return "", invalidEmail(fmt.Sprintf("domain label %q contains invalid character %q", label, r))
			}
		}
	}

	return value, nil
}

func invalidEmail(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidEmail, reason)
}

func isLocalRune(r rune) bool {
	return isASCIIAlnum(r) || r == '.' || r == '+' || r == '_' || r == '-'
}

func isLabelRune(r rune) bool {
	return isASCIIAlnum(r) || r == '-'
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
