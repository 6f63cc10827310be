package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-assetpath"
	"github.com/alnah/go-assetpath/internal/config"
	"github.com/alnah/go-assetpath/internal/content"
	"github.com/alnah/go-assetpath/internal/hints"
	"github.com/alnah/go-assetpath/internal/theme"
)

// Exit codes for the assetpath CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitServer  = 4 // Preview server could not run
)

// ErrInvalidFlags wraps command-line parsing errors.
var ErrInvalidFlags = errors.New("invalid flags")

// wrapFlagError keeps flag.ErrHelp as-is and marks other parse errors as usage errors.
func wrapFlagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Server errors (exit 4)
	if errors.Is(err, ErrServe) {
		return ExitServer
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, assetpath.ErrConfiguration) ||
		errors.Is(err, assetpath.ErrTemplateResolution) ||
		errors.Is(err, assetpath.ErrInvalidSelector) ||
		errors.Is(err, content.ErrFrontMatter) ||
		errors.Is(err, content.ErrPostDate) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, theme.ErrInvalidThemeDir) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, content.ErrPostsDirNotFound) ||
		errors.Is(err, content.ErrReadPost) ||
		errors.Is(err, theme.ErrThemeRead) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWritePage) ||
		errors.Is(err, ErrCopyAssets) {
		return ExitIO
	}

	return ExitGeneral
}

// hintContext carries what a command knew when it failed.
type hintContext struct {
	configName string
	sourceDir  string
	port       int
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, hc hintContext) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		name := hc.configName
		if name == "" {
			name = config.DefaultName
		}
		return hints.ForConfigNotFound(config.SearchPaths(name))
	case errors.Is(err, assetpath.ErrAssetFolderRequired):
		return hints.ForAssetFolder()
	case errors.Is(err, assetpath.ErrCDNFolderRequired):
		return hints.ForCDNFolder()
	case errors.Is(err, assetpath.ErrTemplateResolution):
		return hints.ForTemplate()
	case errors.Is(err, assetpath.ErrInvalidSelector):
		return hints.ForSelector()
	case errors.Is(err, content.ErrPostsDirNotFound):
		return hints.ForPostsDir(hc.sourceDir)
	case errors.Is(err, ErrWritePage), errors.Is(err, ErrCopyAssets):
		return hints.ForOutputDirectory()
	case errors.Is(err, ErrServe):
		return hints.ForPortInUse(hc.port)
	}
	return ""
}
