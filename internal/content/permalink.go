package content

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPermalink is the pattern used when the site leaves permalink empty.
const DefaultPermalink = ":year/:month/:day/:title/"

var permalinkToken = regexp.MustCompile(`:(year|month|day|i_month|i_day|title|name|post_title)`)

// PermalinkPath expands a permalink pattern for p and returns the escaped
// URL path under root, e.g. "/blog/2021/05/03/hello/".
//
// Tokens: :year :month :day :i_month :i_day :title (slug), :name (file name)
// and :post_title (slugified title).
func PermalinkPath(pattern, root string, p *Source) string {
	if pattern == "" {
		pattern = DefaultPermalink
	}
	if p.PermalinkOverride != "" {
		pattern = p.PermalinkOverride
	}

	d := p.Date
	expanded := permalinkToken.ReplaceAllStringFunc(pattern, func(tok string) string {
		switch tok[1:] {
		case "year":
			return d.Format("2006")
		case "month":
			return d.Format("01")
		case "day":
			return d.Format("02")
		case "i_month":
			return strconv.Itoa(int(d.Month()))
		case "i_day":
			return strconv.Itoa(d.Day())
		case "title":
			return p.Slug
		case "name":
			return path.Base(p.Slug)
		default:
			return Slugify(p.Title)
		}
	})

	segments := strings.Split(expanded, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segments, "/")

	return normalizeRoot(root) + strings.TrimPrefix(escaped, "/")
}

// PermalinkURL prefixes the permalink path with the site URL.
func PermalinkURL(siteURL, root, pattern string, p *Source) string {
	return strings.TrimSuffix(siteURL, "/") + PermalinkPath(pattern, root, p)
}

// normalizeRoot returns root with exactly one leading and one trailing slash.
func normalizeRoot(root string) string {
	root = strings.Trim(root, "/")
	if root == "" {
		return "/"
	}
	return "/" + root + "/"
}
