package theme

import "errors"

// Sentinel errors for theme loading.
var (
	// ErrLayoutNotFound indicates the theme has no layout of that name.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrStylesheetNotFound indicates the theme has no stylesheet of that name.
	ErrStylesheetNotFound = errors.New("stylesheet not found")

	// ErrInvalidName indicates a layout or stylesheet name with path
	// separators, dots, or nothing at all.
	ErrInvalidName = errors.New("invalid theme file name")

	// ErrInvalidThemeDir indicates theme_dir is not a readable directory.
	ErrInvalidThemeDir = errors.New("invalid theme directory")

	// ErrThemeRead indicates an I/O error while reading a theme file.
	ErrThemeRead = errors.New("failed to read theme file")
)
