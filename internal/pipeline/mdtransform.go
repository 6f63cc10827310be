package pipeline

import (
	"regexp"
	"strings"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// moreMarker separates a post's excerpt from the rest, as in hexo.
	moreMarker = regexp.MustCompile(`<!--\s*more\s*-->`)
)

// Sections holds the Markdown of a post split at its "more" marker.
type Sections struct {
	Full    string // whole body without the marker
	Excerpt string // before the marker, empty when there is none
	More    string // after the marker, the whole body when there is none
}

// HasExcerpt reports whether the post had a "more" marker.
func (s Sections) HasExcerpt() bool {
	return s.Excerpt != ""
}

// NormalizeMarkdown converts line endings to \n and limits runs of blank
// lines to one.
func NormalizeMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// SplitMore splits a post body at the first "more" marker.
func SplitMore(content string) Sections {
	loc := moreMarker.FindStringIndex(content)
	if loc == nil {
		return Sections{Full: content, More: content}
	}

	excerpt := strings.TrimRight(content[:loc[0]], " \t\n")
	more := strings.TrimLeft(content[loc[1]:], " \t\n")

	return Sections{
		Full:    excerpt + "\n\n" + more,
		Excerpt: excerpt,
		More:    more,
	}
}
