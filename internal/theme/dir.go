package theme

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir reads theme files from a directory on disk.
type Dir struct {
	path string
}

// OpenDir checks that path is a readable directory. Returns
// ErrInvalidThemeDir otherwise.
func OpenDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidThemeDir)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeDir, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidThemeDir, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeDir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidThemeDir, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidThemeDir, err)
	}

	return &Dir{path: abs}, nil
}

// Path returns the absolute theme directory.
func (d *Dir) Path() string {
	return d.path
}

// Layout reads {dir}/layout/{name}.html.
func (d *Dir) Layout(name string) (string, error) {
	return d.read(name, filepath.Join("layout", name+".html"), ErrLayoutNotFound)
}

// Stylesheet reads {dir}/source/css/{name}.css.
func (d *Dir) Stylesheet(name string) (string, error) {
	return d.read(name, filepath.Join("source", "css", name+".css"), ErrStylesheetNotFound)
}

// read opens file through an os.Root so symlinks and ".." cannot leave the
// theme directory.
func (d *Dir) read(name, file string, notFound error) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(d.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrThemeRead, err)
	}
	defer func() { _ = root.Close() }()

	f, err := root.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrThemeRead, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrThemeRead, file, err)
	}
	return string(data), nil
}
