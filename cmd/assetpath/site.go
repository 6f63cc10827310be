package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/alnah/go-assetpath"
	"github.com/alnah/go-assetpath/internal/config"
	"github.com/alnah/go-assetpath/internal/content"
	"github.com/alnah/go-assetpath/internal/dateutil"
	"github.com/alnah/go-assetpath/internal/pipeline"
	"github.com/alnah/go-assetpath/internal/theme"
)

// loadSiteConfig loads the named config, or _config when name is empty.
// A missing _config falls back to defaults; a missing named config is an
// error. ASSETPATH_* variables are applied last.
func loadSiteConfig(name string, env *Environment) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmp.Or(name, config.DefaultName))
	switch {
	case err == nil:
	case name == "" && errors.Is(err, config.ErrConfigNotFound):
		cfg = config.DefaultConfig()
	default:
		return nil, err
	}

	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rewriterSettings maps the site config onto the library types. A selectors
// key absent from the file keeps the default rules; an empty mapping
// disables them.
func rewriterSettings(cfg *config.Config) (assetpath.Config, assetpath.Site) {
	ap := cfg.AssetPath

	var selectors assetpath.Selectors
	if ap.Selectors != nil {
		selectors = make(assetpath.Selectors, 0, len(ap.Selectors))
		for _, p := range ap.Selectors {
			selectors = append(selectors, assetpath.SelectorRule{Selector: p.Key, Attribute: p.Value})
		}
	}

	apCfg := assetpath.Config{
		Enable:      ap.Enable,
		AssetFolder: ap.AssetFolder,
		EnableCDN:   ap.EnableCDN,
		CDNFolder:   ap.CDNFolder,
		CDNUseHTTPS: ap.CDNUseHTTPS,
		Selectors:   selectors,
	}
	site := assetpath.Site{
		PostAssetFolder: cfg.PostAssetFolder,
		DateFormat:      cfg.DateFormat,
		TimeFormat:      cfg.TimeFormat,
	}
	return apCfg, site
}

// siteBuild holds what rendering a post into a page needs.
type siteBuild struct {
	cfg      *config.Config
	loader   *content.Loader
	renderer *content.Renderer
	rewriter *assetpath.Rewriter
	page     *pipeline.PageRenderer
}

// newSiteBuild wires loader, renderer, hook and layout for cfg. The asset_path
// section is validated up front so a bad config fails before any post is read.
func newSiteBuild(cfg *config.Config, local bool, logger *slog.Logger, recorder assetpath.Recorder) (*siteBuild, error) {
	apCfg, apSite := rewriterSettings(cfg)
	if apCfg.Enable {
		if err := assetpath.Validate(apCfg, apSite); err != nil {
			return nil, err
		}
	}

	files, err := theme.Load(cfg.ThemeDir)
	if err != nil {
		return nil, err
	}
	page, err := pipeline.NewPageRenderer(files.Layout, files.CSS)
	if err != nil {
		return nil, err
	}

	return &siteBuild{
		cfg:    cfg,
		loader: content.NewLoader(cfg.SourceDir, cfg.Location()),
		renderer: content.NewRenderer(content.Site{
			URL:       cfg.URL,
			Root:      cfg.Root,
			Permalink: cfg.Permalink,
		}, pipeline.NewGoldmarkConverter()),
		rewriter: assetpath.NewRewriter(apCfg, apSite,
			assetpath.WithLocalPreview(local),
			assetpath.WithLogger(logger),
			assetpath.WithRecorder(recorder),
		),
		page: page,
	}, nil
}

// renderPage renders src, rewrites its asset links and wraps it in the layout.
func (b *siteBuild) renderPage(ctx context.Context, src *content.Source) (string, error) {
	post, err := b.renderer.Render(ctx, src)
	if err != nil {
		return "", err
	}
	if err := b.rewriter.AfterPostRender(&post); err != nil {
		return "", err
	}

	date, err := dateutil.Format(post.Date, cmp.Or(b.cfg.DateFormat, dateutil.DefaultDateFormat))
	if err != nil {
		return "", fmt.Errorf("formatting date of %s: %w", src.Path, err)
	}

	return b.page.Render(ctx, pipeline.PageData{
		SiteTitle: b.cfg.Title,
		Title:     post.Title,
		Date:      date,
		Permalink: post.Permalink,
		Content:   template.HTML(post.Content), // #nosec G203 -- rendered from the author's own Markdown
	})
}
