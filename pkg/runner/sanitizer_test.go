package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizer_SizeLimit(t *testing.T) {
	s := Sanitizer{MaxSize: 16}

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", 15, false},
		{"Exact Limit", 16, false},
		{"Over Limit", 17, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Clean(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizer_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "мало", "мало"},
		{"Safe Controls", "Line1\nLine2\tTabbed", "Line1\nLine2\tTabbed"},
		{"ANSI Code", "\x1b[31m3\x1b[0m", "[31m3[0m"},
		{"Null Byte", "1\x002", "12"},
		{"Bell", "5\x07", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultSanitizer().Clean(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizer_InvalidUTF8(t *testing.T) {
	_, err := DefaultSanitizer().Clean("\xff\xfe")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDefaultSanitizer_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	assert.Equal(t, 10, DefaultSanitizer().MaxSize)

	t.Setenv(EnvMaxInputSize, "garbage")
	assert.Equal(t, DefaultMaxInputSize, DefaultSanitizer().MaxSize)
}
