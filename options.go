package assetpath

import (
	"github.com/alnah/go-assetpath/internal/metrics"
	"github.com/alnah/go-assetpath/internal/pipeline"
)

// Options is the immutable snapshot one render event works from.
// Build it with BuildOptions.
type Options struct {
	enable       bool
	assetFolder  string
	enableCDN    bool
	cdnFolder    string
	cdnUseHTTPS  bool
	rules        []pipeline.Rule
	site         Site
	localPreview bool
	resolver     TemplateResolver
}

// BuildOptions validates cfg and compiles its selectors. A nil resolver
// means TextTemplateResolver.
func BuildOptions(cfg Config, site Site, localPreview bool, resolver TemplateResolver) (*Options, error) {
	if err := Validate(cfg, site); err != nil {
		return nil, err
	}

	selectors := cfg.Selectors
	if selectors == nil {
		selectors = DefaultSelectors()
	}

	rules := make([]pipeline.Rule, 0, len(selectors))
	for _, s := range selectors {
		if s.Attribute == "" {
			continue
		}
		rule, err := pipeline.NewRule(s.Selector, s.Attribute)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if resolver == nil {
		resolver = TextTemplateResolver{}
	}

	return &Options{
		enable:       cfg.Enable,
		assetFolder:  cfg.AssetFolder,
		enableCDN:    cfg.EnableCDN,
		cdnFolder:    cfg.CDNFolder,
		cdnUseHTTPS:  cfg.CDNUseHTTPS,
		rules:        rules,
		site:         site,
		localPreview: localPreview,
		resolver:     resolver,
	}, nil
}

// Enabled reports the master switch.
func (o *Options) Enabled() bool { return o.enable }

// LocalPreview reports whether links are composed for the local preview server.
func (o *Options) LocalPreview() bool { return o.localPreview }

// Mode is the metrics label of the render mode.
func (o *Options) Mode() string { return modeLabel(o.localPreview) }

func modeLabel(localPreview bool) string {
	if localPreview {
		return metrics.ModeLocal
	}
	return metrics.ModeProduction
}

func (o *Options) usePermalink() bool {
	return o.site.PostAssetFolder
}

func (o *Options) useAssetFolder() bool {
	return (o.localPreview && !o.site.PostAssetFolder) || (!o.localPreview && !o.enableCDN)
}

// useCDNFolder keeps per-post folders off the CDN: with post_asset_folder on,
// the permalink wins.
func (o *Options) useCDNFolder() bool {
	return !o.localPreview && o.enableCDN && !o.site.PostAssetFolder
}
