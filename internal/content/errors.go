package content

import "errors"

// Sentinel errors for post loading.
var (
	ErrPostsDirNotFound = errors.New("posts directory not found")
	ErrReadPost         = errors.New("failed to read post")
	ErrFrontMatter      = errors.New("invalid front matter")
	ErrPostDate         = errors.New("invalid post date")
	ErrRenderPost       = errors.New("failed to render post")
)
