// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// StringPair is one entry of a StringPairs mapping.
type StringPair struct {
	Key   string
	Value string
}

// StringPairs decodes a YAML mapping keeping document order.
// Null values decode to "", scalars to their string form.
type StringPairs []StringPair

// UnmarshalYAML implements goccy's InterfaceUnmarshaler.
func (p *StringPairs) UnmarshalYAML(unmarshal func(any) error) error {
	var ms yaml.MapSlice
	if err := unmarshal(&ms); err != nil {
		return err
	}

	pairs := make(StringPairs, 0, len(ms))
	for _, item := range ms {
		pair := StringPair{Key: fmt.Sprint(item.Key)}
		if item.Value != nil {
			pair.Value = fmt.Sprint(item.Value)
		}
		pairs = append(pairs, pair)
	}

	*p = pairs
	return nil
}

var frontMatterFence = []byte("---")

// SplitFrontMatter separates a leading "---" fenced YAML block from the body.
// found is false when the content has no front matter; body is then the whole input.
func SplitFrontMatter(content []byte) (front, body []byte, found bool) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	first, rest, ok := cutLine(content)
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t\r"), frontMatterFence) {
		return nil, content, false
	}

	start := len(content) - len(rest)
	for pos := start; pos <= len(content); {
		line, next, more := cutLine(content[pos:])
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterFence) {
			return content[start:pos], content[len(content)-len(next):], true
		}
		if !more {
			break
		}
		pos = len(content) - len(next)
	}

	return nil, content, false
}

// cutLine returns the first line without its newline and what follows it.
// more is false when the line ran to the end of s.
func cutLine(s []byte) (line, rest []byte, more bool) {
	if i := bytes.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, nil, false
}
