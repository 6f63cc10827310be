package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates the page layout could not be executed.
var ErrPageRender = errors.New("page layout rendering failed")

// PageData is what the post layout sees.
type PageData struct {
	SiteTitle string
	Title     string
	Date      string
	Permalink string
	Content   template.HTML
	Preview   bool // rendered by the local preview server
}

// PageRenderer wraps rewritten post fragments into complete pages.
type PageRenderer struct {
	tmpl *template.Template
	css  string
}

// NewPageRenderer parses the layout template. css is injected into every page.
func NewPageRenderer(layout, css string) (*PageRenderer, error) {
	tmpl, err := template.New("post").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("parsing post layout: %w", err)
	}
	return &PageRenderer{tmpl: tmpl, css: css}, nil
}

// Render executes the layout and injects the stylesheet.
func (p *PageRenderer) Render(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	return injectCSS(buf.String(), p.css), nil
}

// injectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the page, whichever it finds first.
func injectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + strings.ReplaceAll(cssContent, "</", `<\/`) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}
