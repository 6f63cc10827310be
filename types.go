package assetpath

import "time"

// Post is the rendered post handed to the render hook. Only Content, More and
// Excerpt are ever replaced.
type Post struct {
	Title     string
	Slug      string
	Date      time.Time
	Permalink string // URL-shaped, e.g. "http://example.com/2020/01/01/my-post/"
	Path      string // Source path, used in log records
	Content   string // Full rendered HTML
	More      string // HTML after the <!-- more --> marker
	Excerpt   string // HTML before the <!-- more --> marker
}

// SelectorRule names the attribute rewritten on elements matching Selector.
// An empty Attribute skips the selector.
type SelectorRule struct {
	Selector  string
	Attribute string
}

// Selectors is an ordered list of rules, applied in order.
type Selectors []SelectorRule

// DefaultSelectors returns the rules used when Config.Selectors is nil.
func DefaultSelectors() Selectors {
	return Selectors{
		{Selector: "img", Attribute: "src"},
		{Selector: "a", Attribute: "href"},
		{Selector: "script", Attribute: "src"},
		{Selector: "link", Attribute: "href"},
		{Selector: "video", Attribute: "src"},
		{Selector: "audio", Attribute: "src"},
		{Selector: "source", Attribute: "src"},
	}
}

// Config is the asset_path configuration section.
type Config struct {
	Enable      bool
	AssetFolder string // Folder template, e.g. "assets/{{.post_slug}}". Empty = none.
	EnableCDN   bool
	CDNFolder   string // Folder template, e.g. "cdn.example.com/{{.post_slug}}". Empty = none.
	CDNUseHTTPS bool
	Selectors   Selectors // nil = DefaultSelectors(), empty = rewrite nothing
}

// Site holds the site-wide settings the rewriter depends on.
type Site struct {
	PostAssetFolder bool   // Per-post asset folders next to each post's output
	DateFormat      string // Moment-style, empty = "YYYY-MM-DD"
	TimeFormat      string // Moment-style, empty = "HH:mm:ss"
}
