package assetpath

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/alnah/go-assetpath/internal/dateutil"
)

// Placeholder names available to folder templates.
const (
	ArgPostTitle       = "post_title"
	ArgPostSlug        = "post_slug"
	ArgPostCreated     = "post_created"      // time.Time
	ArgPostCreatedDate = "post_created_date" // formatted with Site.DateFormat
	ArgPostCreatedTime = "post_created_time" // formatted with Site.TimeFormat
)

// TemplateArgs maps placeholder names to values for one post.
type TemplateArgs map[string]any

// NewTemplateArgs derives the placeholder values of post.
func NewTemplateArgs(post Post, site Site) (TemplateArgs, error) {
	date, err := dateutil.Format(post.Date, cmp.Or(site.DateFormat, dateutil.DefaultDateFormat))
	if err != nil {
		return nil, fmt.Errorf("%w: date_format: %v", ErrTemplateResolution, err)
	}
	clock, err := dateutil.Format(post.Date, cmp.Or(site.TimeFormat, dateutil.DefaultTimeFormat))
	if err != nil {
		return nil, fmt.Errorf("%w: time_format: %v", ErrTemplateResolution, err)
	}

	return TemplateArgs{
		ArgPostTitle:       post.Title,
		ArgPostSlug:        post.Slug,
		ArgPostCreated:     post.Date,
		ArgPostCreatedDate: date,
		ArgPostCreatedTime: clock,
	}, nil
}

// TemplateResolver expands a folder template with a post's arguments.
type TemplateResolver interface {
	Resolve(tmpl string, args TemplateArgs) (string, error)
}

// TextTemplateResolver resolves folder templates with text/template.
// Placeholders are written {{.post_slug}}; the underscore form <%= post_slug %>
// used by hexo configurations is accepted too. Unknown placeholders fail.
type TextTemplateResolver struct{}

var underscorePlaceholder = regexp.MustCompile(`<%[=-]\s*([A-Za-z_][A-Za-z0-9_]*)\s*%>`)

// Resolve implements TemplateResolver. Errors wrap ErrTemplateResolution.
func (TextTemplateResolver) Resolve(text string, args TemplateArgs) (string, error) {
	text = underscorePlaceholder.ReplaceAllString(text, "{{.${1}}}")
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("folder").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrTemplateResolution, text, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, args); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrTemplateResolution, text, err)
	}
	return b.String(), nil
}
