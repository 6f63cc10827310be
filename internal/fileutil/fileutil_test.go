package fileutil_test

// Notes:
// - The Write and Close error branches in WriteFileAtomic are not tested
//   because triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-assetpath/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic page writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "2021", "05", "post", "index.html")

	if err := fileutil.WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only index.html", len(entries))
	}
}

func TestWriteFileAtomic_ParentIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.WriteFileAtomic(filepath.Join(blocker, "index.html"), []byte("x")); err == nil {
		t.Error("WriteFileAtomic() under a file returned nil")
	}
}

// ---------------------------------------------------------------------------
// TestCopyDir - Asset folder copies
// ---------------------------------------------------------------------------

func TestCopyDir(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	files := map[string]string{
		"photo.jpg":       "jpg",
		"sub/diagram.svg": "svg",
		".hidden":         "no",
		".git/config":     "no",
		"sub/.DS_Store":   "no",
	}
	for name, data := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	n, err := fileutil.CopyDir(src, dst)
	if err != nil {
		t.Fatalf("CopyDir() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CopyDir() copied %d files, want 2", n)
	}

	for _, name := range []string{"photo.jpg", "sub/diagram.svg"} {
		data, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("%s not copied: %v", name, err)
			continue
		}
		if string(data) != files[name] {
			t.Errorf("%s = %q, want %q", name, data, files[name])
		}
	}
	for _, name := range []string{".hidden", ".git/config", "sub/.DS_Store"} {
		if fileutil.FileExists(filepath.Join(dst, filepath.FromSlash(name))) {
			t.Errorf("hidden entry %s was copied", name)
		}
	}
}

func TestCopyDir_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := fileutil.CopyDir(file, filepath.Join(dir, "out")); !errors.Is(err, fileutil.ErrNotDirectory) {
		t.Errorf("CopyDir(file) error = %v, want ErrNotDirectory", err)
	}
	if _, err := fileutil.CopyDir(filepath.Join(dir, "missing"), filepath.Join(dir, "out")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CopyDir(missing) error = %v, want os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File and directory existence checks
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
		wantDir  bool
	}{
		{name: "existing file", path: testFile, wantFile: true},
		{name: "directory", path: testDir, wantDir: true},
		{name: "nonexistent path", path: filepath.Join(tempDir, "nonexistent")},
		{name: "empty path", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
			if got := fileutil.DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"_config", false},
		{"site-config", false},
		{"./_config.yml", true},
		{"../site/_config.yml", true},
		{"/etc/_config.yml", true},
		{`C:\site\_config.yml`, true},
		{"", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
