package content

import (
	"context"
	"fmt"

	"github.com/alnah/go-assetpath"
	"github.com/alnah/go-assetpath/internal/pipeline"
)

// Site holds the site settings that shape post URLs.
type Site struct {
	URL       string
	Root      string
	Permalink string // pattern, DefaultPermalink when empty
}

// Renderer turns loaded posts into rendered posts ready for the hook.
type Renderer struct {
	site      Site
	converter pipeline.HTMLConverter
}

// NewRenderer creates a Renderer. A nil converter uses goldmark.
func NewRenderer(site Site, converter pipeline.HTMLConverter) *Renderer {
	if converter == nil {
		converter = pipeline.NewGoldmarkConverter()
	}
	return &Renderer{site: site, converter: converter}
}

// PermalinkPath returns the escaped URL path of src under the site root.
func (r *Renderer) PermalinkPath(src *Source) string {
	return PermalinkPath(r.site.Permalink, r.site.Root, src)
}

// Render converts the body into Content, Excerpt and More. Excerpt is empty
// when the post has no "more" marker; More is then the whole post.
func (r *Renderer) Render(ctx context.Context, src *Source) (assetpath.Post, error) {
	sections := src.Sections()

	content, err := r.converter.ToHTML(ctx, sections.Full)
	if err != nil {
		return assetpath.Post{}, fmt.Errorf("%w: %s: %w", ErrRenderPost, src.Path, err)
	}

	more := content
	var excerpt string
	if sections.HasExcerpt() {
		if excerpt, err = r.converter.ToHTML(ctx, sections.Excerpt); err != nil {
			return assetpath.Post{}, fmt.Errorf("%w: %s: %w", ErrRenderPost, src.Path, err)
		}
		if more, err = r.converter.ToHTML(ctx, sections.More); err != nil {
			return assetpath.Post{}, fmt.Errorf("%w: %s: %w", ErrRenderPost, src.Path, err)
		}
	}

	return assetpath.Post{
		Title:     src.Title,
		Slug:      src.Slug,
		Date:      src.Date,
		Permalink: PermalinkURL(r.site.URL, r.site.Root, r.site.Permalink, src),
		Path:      src.Path,
		Content:   content,
		More:      more,
		Excerpt:   excerpt,
	}, nil
}
