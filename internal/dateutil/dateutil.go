// Package dateutil formats and parses post dates using moment-style tokens,
// the notation hexo sites use for date_format and time_format.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ErrInvalidDate indicates a date value no known layout accepts.
var ErrInvalidDate = errors.New("invalid date")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// Site-wide defaults, same as hexo's.
const (
	DefaultDateFormat = "YYYY-MM-DD"
	DefaultTimeFormat = "HH:mm:ss"
)

// dateTokens maps format tokens to their rendering.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token  string
	render func(time.Time) string
}{
	{"YYYY", func(t time.Time) string { return t.Format("2006") }},
	{"MMMM", func(t time.Time) string { return t.Format("January") }},
	{"dddd", func(t time.Time) string { return t.Format("Monday") }},
	{"MMM", func(t time.Time) string { return t.Format("Jan") }},
	{"ddd", func(t time.Time) string { return t.Format("Mon") }},
	{"SSS", func(t time.Time) string { return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond)) }},
	{"YY", func(t time.Time) string { return t.Format("06") }},
	{"MM", func(t time.Time) string { return t.Format("01") }},
	{"DD", func(t time.Time) string { return t.Format("02") }},
	{"HH", func(t time.Time) string { return t.Format("15") }},
	{"hh", func(t time.Time) string { return t.Format("03") }},
	{"mm", func(t time.Time) string { return t.Format("04") }},
	{"ss", func(t time.Time) string { return t.Format("05") }},
	{"ZZ", func(t time.Time) string { return t.Format("-0700") }},
	{"M", func(t time.Time) string { return t.Format("1") }},
	{"D", func(t time.Time) string { return t.Format("2") }},
	{"H", func(t time.Time) string { return strconv.Itoa(t.Hour()) }},
	{"h", func(t time.Time) string { return t.Format("3") }},
	{"m", func(t time.Time) string { return t.Format("4") }},
	{"s", func(t time.Time) string { return t.Format("5") }},
	{"A", func(t time.Time) string { return t.Format("PM") }},
	{"a", func(t time.Time) string { return t.Format("pm") }},
	{"Z", func(t time.Time) string { return t.Format("-07:00") }},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ValidateFormat checks a format string without rendering it.
func ValidateFormat(format string) error {
	_, err := Format(time.Time{}, format)
	return err
}

// Format renders t with a moment-style format string.
// Tokens: YYYY YY MMMM MMM MM M DD D dddd ddd HH H hh h mm m ss s SSS A a ZZ Z.
// Use brackets to escape literal text: [at] renders "at".
// Any non-token characters outside brackets are preserved as literals.
// A preset name (iso, european, us, long) is accepted in place of a format.
func Format(t time.Time, format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				result.WriteString(tok.render(t))
				i += len(tok.token)
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

// parseLayouts are the date shapes accepted in front matter and on the command line.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseDate reads a post date. Values without a zone are taken in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
