// Package assetpath rewrites asset links in rendered blog posts so one
// authoring-time relative path resolves under local preview, a static build
// with per-post asset folders, and CDN-hosted assets.
//
// # Quick Start
//
// Create a rewriter from the asset_path configuration and call it once per
// rendered post:
//
//	rw := assetpath.NewRewriter(assetpath.Config{
//	    Enable:      true,
//	    AssetFolder: "static",
//	}, assetpath.Site{})
//
//	post := &assetpath.Post{
//	    Permalink: "http://example.com/2021/05/post-x/",
//	    Content:   `<img src="photo.jpg">`,
//	}
//	if err := rw.AfterPostRender(post); err != nil {
//	    log.Fatal(err)
//	}
//	// post.Content == `<img src="static/photo.jpg">`
//
// # Routing
//
// Only relative links are rewritten. Empty values, data URIs, absolute paths
// and URLs are left alone. A relative link gets its prefix from the render
// mode and the site's post_asset_folder setting:
//
//	mode                post_asset_folder on        post_asset_folder off
//	local preview       permalink                   asset_folder
//	build, CDN off      asset_folder + permalink    asset_folder
//	build, CDN on       permalink                   scheme + cdn_folder
//
// asset_folder and cdn_folder are templates resolved per post with
// post_title, post_slug, post_created, post_created_date and
// post_created_time:
//
//	assetpath.Config{
//	    Enable:      true,
//	    EnableCDN:   true,
//	    CDNFolder:   "cdn.example.com/{{.post_slug}}",
//	    CDNUseHTTPS: true,
//	}
//
// # Selectors
//
// Config.Selectors lists CSS selectors and the attribute rewritten on their
// matches, applied in order. Only those attribute values change; the rest of
// the markup is kept byte for byte.
//
// # Errors
//
// Incoherent configurations wrap ErrConfiguration together with
// ErrAssetFolderRequired or ErrCDNFolderRequired. Folder templates that fail
// to resolve wrap ErrTemplateResolution. Use errors.Is to check.
package assetpath
