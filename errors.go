package assetpath

import (
	"errors"

	"github.com/alnah/go-assetpath/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrConfiguration wraps every incoherent asset_path configuration.
	ErrConfiguration = errors.New("invalid asset_path configuration")

	// Configuration causes, always wrapped together with ErrConfiguration.
	ErrAssetFolderRequired = errors.New("asset_folder is required when post_asset_folder is disabled")
	ErrCDNFolderRequired   = errors.New("cdn_folder is required when enable_cdn is set")

	// ErrTemplateResolution indicates a folder template that failed to parse or execute.
	ErrTemplateResolution = errors.New("folder template resolution failed")

	// ErrInvalidSelector indicates a selector that cannot be compiled.
	ErrInvalidSelector = pipeline.ErrInvalidSelector
)
