package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the files every page uses.
const (
	PostLayout        = "post"
	DefaultStylesheet = "style"
)

// Source reads theme files by name, without directory or extension.
type Source interface {
	// Layout returns layout/{name}.html, or ErrLayoutNotFound.
	Layout(name string) (string, error)

	// Stylesheet returns source/css/{name}.css, or ErrStylesheetNotFound.
	Stylesheet(name string) (string, error)
}

// Files is what the page renderer needs from a theme.
type Files struct {
	Layout string
	CSS    string
}

// Load returns the post layout and stylesheet of the theme in dir, falling
// back to the built-in theme for missing files. An empty dir means the
// built-in theme only.
func Load(dir string) (Files, error) {
	var src Source = Builtin()
	if dir != "" {
		d, err := OpenDir(dir)
		if err != nil {
			return Files{}, err
		}
		src = WithFallback(d, Builtin())
	}

	layout, err := src.Layout(PostLayout)
	if err != nil {
		return Files{}, err
	}
	css, err := src.Stylesheet(DefaultStylesheet)
	if err != nil {
		return Files{}, err
	}
	return Files{Layout: layout, CSS: css}, nil
}

// fallback reads from primary and, for missing files only, from secondary.
type fallback struct {
	primary   Source
	secondary Source
}

// WithFallback returns a Source that tries primary first. Invalid names and
// read errors from primary are returned as-is.
func WithFallback(primary, secondary Source) Source {
	return &fallback{primary: primary, secondary: secondary}
}

func (f *fallback) Layout(name string) (string, error) {
	s, err := f.primary.Layout(name)
	if errors.Is(err, ErrLayoutNotFound) {
		return f.secondary.Layout(name)
	}
	return s, err
}

func (f *fallback) Stylesheet(name string) (string, error) {
	s, err := f.primary.Stylesheet(name)
	if errors.Is(err, ErrStylesheetNotFound) {
		return f.secondary.Stylesheet(name)
	}
	return s, err
}

// validateName rejects names that could select a file outside the expected
// directory or with another extension.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
