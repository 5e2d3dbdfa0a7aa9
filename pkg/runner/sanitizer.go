package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize is 4KB, far above any sensible stock value.
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize.
const EnvMaxInputSize = "STOCKCHECK_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer guards the value store against terminal garbage.
type Sanitizer struct {
	// MaxSize is the byte limit. Zero or less disables the check.
	MaxSize int
}

// DefaultSanitizer honours EnvMaxInputSize when it holds a positive integer.
func DefaultSanitizer() Sanitizer {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return Sanitizer{MaxSize: size}
		}
	}
	return Sanitizer{MaxSize: DefaultMaxInputSize}
}

// Clean rejects oversized or invalid UTF-8 input and strips control characters
// other than newline, tab and carriage return. Oversized input is rejected, not
// truncated, so a partial value is never stored.
func (s Sanitizer) Clean(input string) (string, error) {
	if s.MaxSize > 0 && len(input) > s.MaxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), s.MaxSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
