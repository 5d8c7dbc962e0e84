package values

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "johndoe", false},
		{"digits", "user123", false},
		{"hyphen", "user-name", false},
		{"underscore", "john_doe", false},
		{"very long", strings.Repeat("a", 100), false},
		{"unicode letters", "jürgen", false},
		{"superscript digit", "x²", false},
		{"roman numeral", "Ⅻ", false},
		{"vulgar fraction", "user½", false},
		{"symbol", "user€", true},
		{"empty", "", true},
		{"single space", " ", true},
		{"spaces only", "   ", true},
		{"newline", "\n", true},
		{"tab", "\t", true},
		{"inner space", "john doe", true},
		{"surrounding space", " johndoe ", true},
		{"dot", "john.doe", true},
		{"at sign", "john@doe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateUsername(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidUsername)
				assert.Empty(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input, got)
			}
		})
	}
}

func Test_ValidateUsername_WhitespaceOnlyAlwaysFails(t *testing.T) {
	t.Parallel()

	whitespace := []rune{' ', '\t', '\n', '\r', '\v', '\f', ' ', ' '}
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		var b strings.Builder
		n := 1 + rng.IntN(12)
		for j := 0; j < n; j++ {
			b.WriteRune(whitespace[rng.IntN(len(whitespace))])
		}

		_, err := ValidateUsername(b.String())
		assert.ErrorIs(t, err, ErrInvalidUsername, "input %q", b.String())
	}
}

func Test_ValidateUsername_AllowedAlphabetRoundTrips(t *testing.T) {
	t.Parallel()

	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
	rng := rand.New(rand.NewPCG(3, 4))

	for i := 0; i < 200; i++ {
		var b strings.Builder
		n := 1 + rng.IntN(32)
		for j := 0; j < n; j++ {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		input := b.String()

		got, err := ValidateUsername(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, input, got)
	}
}
