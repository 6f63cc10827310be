package pipeline

import (
	"errors"
	"fmt"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
)

// ErrMinify indicates the minifier rejected a page.
var ErrMinify = errors.New("minification failed")

// Minifier shrinks generated pages before they are written out.
// It runs on whole pages after asset paths are rewritten, never on the
// fragments handed to the rewriter.
type Minifier struct {
	m *minify.M
}

// NewMinifier creates a Minifier for HTML pages with inline CSS.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.Add("text/html", &minhtml.Minifier{
		KeepSpecialComments: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	return &Minifier{m: m}
}

// MinifyHTML minifies a complete HTML page.
func (m *Minifier) MinifyHTML(page string) (string, error) {
	out, err := m.m.String("text/html", page)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	return out, nil
}
