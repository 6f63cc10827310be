package assetpath

import "fmt"

// Validate reports an incoherent configuration. It wraps ErrConfiguration
// together with ErrAssetFolderRequired or ErrCDNFolderRequired.
func Validate(cfg Config, site Site) error {
	if !site.PostAssetFolder && cfg.AssetFolder == "" {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrAssetFolderRequired)
	}
	if cfg.EnableCDN && cfg.CDNFolder == "" {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrCDNFolderRequired)
	}
	return nil
}
