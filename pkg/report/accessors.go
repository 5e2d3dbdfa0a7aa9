package report

import (
	"errors"
	"strconv"
	"strings"
)

// ScarceMarker is the free-text word operators enter for a YesNo item that is running low.
const ScarceMarker = "мало"

// Level is the typed reading of a YesNo value.
type Level int

const (
	LevelUnknown Level = iota // never reported or blank
	LevelScarce               // matches ScarceMarker
	LevelOther                // any other text
)

func (l Level) String() string {
	switch l {
	case LevelScarce:
		return "scarce"
	case LevelOther:
		return "other"
	default:
		return "unknown"
	}
}

// Quantity parses a Quantity value. The bool is false when the text is not a number.
// Surrounding whitespace is ignored. Hex floats are not numbers here; values
// beyond float64 range read as ±Inf.
func Quantity(value string) (float64, bool) {
	text := strings.TrimSpace(value)
	if isHex(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

func isHex(text string) bool {
	if text != "" && (text[0] == '+' || text[0] == '-') {
		text = text[1:]
	}
	return len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// Scarcity classifies a YesNo value. Matching is case-insensitive and exact.
func Scarcity(value string) Level {
	switch {
	case value == "":
		return LevelUnknown
	case strings.EqualFold(value, ScarceMarker):
		return LevelScarce
	default:
		return LevelOther
	}
}
