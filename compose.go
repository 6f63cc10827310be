package assetpath

import (
	"net/url"
	"path"
	"strings"

	"github.com/alnah/go-assetpath/internal/pipeline"
)

// ComposePath returns the link assetPath should have in the rendered page.
// Empty values, data URIs, absolute paths and URLs are returned unchanged.
//
//	mode                post_asset_folder on        post_asset_folder off
//	local preview       permalink                   asset_folder
//	build, CDN off      asset_folder + permalink    asset_folder
//	build, CDN on       permalink                   scheme + cdn_folder
//
// The result always uses forward slashes. Template failures wrap
// ErrTemplateResolution.
func ComposePath(opts *Options, args TemplateArgs, permalink, assetPath string) (string, error) {
	return composePath(opts, func() (TemplateArgs, error) { return args, nil }, permalink, assetPath)
}

// argsFunc yields a post's template arguments. It is only called when a
// folder template has to be resolved.
type argsFunc func() (TemplateArgs, error)

func composePath(opts *Options, args argsFunc, permalink, assetPath string) (string, error) {
	if !pipeline.IsRelativePath(assetPath) {
		return assetPath, nil
	}

	fixed := assetPath
	if opts.usePermalink() {
		fixed = joinPath(permalinkPath(permalink), fixed)
	}

	switch {
	case opts.useAssetFolder():
		folder, err := opts.resolve(opts.assetFolder, args)
		if err != nil {
			return "", err
		}
		fixed = joinPath(folder, fixed)
	case opts.useCDNFolder():
		folder, err := opts.resolve(opts.cdnFolder, args)
		if err != nil {
			return "", err
		}
		scheme := "http://"
		if opts.cdnUseHTTPS {
			scheme = "https://"
		}
		fixed = scheme + joinPath(folder, fixed)
	}

	return strings.ReplaceAll(fixed, `\`, "/"), nil
}

// resolve expands a folder template. An absent template is an empty folder.
func (o *Options) resolve(tmpl string, args argsFunc) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	a, err := args()
	if err != nil {
		return "", err
	}
	return o.resolver.Resolve(tmpl, a)
}

// permalinkPath strips scheme, host, query and fragment from a permalink.
func permalinkPath(permalink string) string {
	u, err := url.Parse(permalink)
	if err != nil {
		return permalink
	}
	return u.EscapedPath()
}

// joinPath joins and cleans URL segments, keeping a trailing slash on rel.
func joinPath(dir, rel string) string {
	joined := path.Join(dir, rel)
	if strings.HasSuffix(rel, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}
