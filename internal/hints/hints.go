// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"

	"github.com/alnah/go-assetpath/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-assetpath/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/_config.yml"

	// Find a user config path (contains .config/go-assetpath) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-assetpath") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForPostsDir returns hints when the posts directory is missing.
func ForPostsDir(sourceDir string) string {
	return format(fmt.Sprintf("create %s/_posts or set source_dir in _config.yml", strings.TrimSuffix(sourceDir, "/")))
}

// ForAssetFolder returns hints for a missing asset_path.asset_folder.
func ForAssetFolder() string {
	return format("set asset_path.asset_folder or turn on post_asset_folder")
}

// ForCDNFolder returns hints for a missing asset_path.cdn_folder.
func ForCDNFolder() string {
	return format("set asset_path.cdn_folder or turn off asset_path.enable_cdn")
}

// ForTemplate lists the placeholders folder templates may use.
func ForTemplate() string {
	return format("placeholders: post_title, post_slug, post_created, post_created_date, post_created_time")
}

// ForSelector returns hints for selectors that do not compile.
func ForSelector() string {
	return format(`selectors are CSS, e.g. "img.cover": src`)
}

// ForPortInUse returns hints when the preview server cannot listen.
func ForPortInUse(port int) string {
	hints := []string{fmt.Sprintf("port %d may be in use, try --port", port)}
	if IsInContainer() {
		hints = append(hints, "use --host 0.0.0.0 to reach the server from outside the container")
	}
	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
