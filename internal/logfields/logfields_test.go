package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Post", KeyPost, "_posts/a.md", Post("_posts/a.md")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Old", KeyOld, "a.png", Old("a.png")},
		{"New", KeyNew, "assets/a.png", New("assets/a.png")},
		{"Selector", KeySelector, "img", Selector("img")},
		{"Attribute", KeyAttribute, "src", Attribute("src")},
		{"Mode", KeyMode, "local", Mode("local")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"File", KeyFile, "post.md", File("post.md")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, got)
		}
	}
}

func TestIntHelpers(t *testing.T) {
	t.Parallel()

	if a := Changes(3); a.Key != KeyChanges || a.Value.Int64() != 3 {
		t.Errorf("Changes(3) = %v", a)
	}
	if a := Status(404); a.Key != KeyStatus || a.Value.Int64() != 404 {
		t.Errorf("Status(404) = %v", a)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	if a := Error(nil); a.Key != KeyError || a.Value.String() != "" {
		t.Errorf("Error(nil) = %v", a)
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Errorf("Error(boom) = %v", a)
	}
}
