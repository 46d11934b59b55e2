// Package dateutil formats document dates for the letter info region.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits format string length to prevent abuse.
const MaxFormatLength = 50

// longFormat is the house style for the letter info region.
const longFormat = "January 2, 2006"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common date formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// FormatLong renders t in the long letter form, e.g. "March 4, 2026".
func FormatLong(t time.Time) string {
	return t.Format(longFormat)
}

// Format renders t using a user-friendly format string or preset name.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Non-token characters are
// preserved as literals. An empty format falls back to the long form.
func Format(t time.Time, format string) (string, error) {
	if format == "" {
		return FormatLong(t), nil
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	goFmt, err := parseFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}

// parseFormat converts a token format string to Go's time layout.
func parseFormat(format string) (string, error) {
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}
