package hints

// Notes:
// - ForPortInUse tests cannot use t.Parallel() because they modify the
//   package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior.

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with paths",
			paths:    []string{"./_config.yml", "/home/u/.config/go-assetpath/_config.yml"},
			contains: "create /home/u/.config/go-assetpath/_config.yml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForPostsDir(t *testing.T) {
	hint := ForPostsDir("source/")

	if !strings.Contains(hint, "source/_posts") {
		t.Errorf("expected posts dir mention, got %q", hint)
	}
}

func TestForPortInUse(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()

	IsInContainer = func() bool { return false }
	hint := ForPortInUse(4000)
	if !strings.Contains(hint, "4000") || strings.Contains(hint, "0.0.0.0") {
		t.Errorf("outside container hint = %q", hint)
	}

	IsInContainer = func() bool { return true }
	hint = ForPortInUse(4000)
	if !strings.Contains(hint, "--host 0.0.0.0") {
		t.Errorf("container hint = %q, want --host suggestion", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForOutputDirectory(),
		ForAssetFolder(),
		ForCDNFolder(),
		ForTemplate(),
		ForSelector(),
		ForPostsDir("source"),
		ForConfigNotFound(nil),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
}
