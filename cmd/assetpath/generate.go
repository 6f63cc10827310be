package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-assetpath/internal/content"
	"github.com/alnah/go-assetpath/internal/fileutil"
	"github.com/alnah/go-assetpath/internal/logfields"
	"github.com/alnah/go-assetpath/internal/pipeline"
)

// Sentinel errors for the generate command.
var (
	ErrWritePage  = errors.New("failed to write page")
	ErrCopyAssets = errors.New("failed to copy assets")
)

// linkCounter totals rewrite metrics for the generate summary.
type linkCounter struct {
	mu    sync.Mutex
	posts int
	links int
}

func (c *linkCounter) ObserveRewrite(_ string, links int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts++
	c.links += links
}

func (c *linkCounter) IncRewriteFailure(string) {}

// runGenerate renders every post in production mode into the public directory.
func runGenerate(ctx context.Context, args []string, env *Environment, hc *hintContext) error {
	flags, _, err := parseGenerateFlags(args)
	if err != nil {
		return err
	}
	hc.configName = flags.common.config

	cfg, err := loadSiteConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	hc.sourceDir = cfg.SourceDir

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	counter := &linkCounter{}
	build, err := newSiteBuild(cfg, false, logger, counter)
	if err != nil {
		return err
	}

	var minifier *pipeline.Minifier
	if flags.minify {
		minifier = pipeline.NewMinifier()
	}

	start := env.Now()
	posts, err := build.loader.Load()
	if err != nil {
		return err
	}

	publicDir := cmp.Or(flags.output, cfg.PublicDir)
	assetsCopied := 0

	for _, src := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := build.renderPage(ctx, src)
		if err != nil {
			return err
		}
		if minifier != nil {
			if page, err = minifier.MinifyHTML(page); err != nil {
				return fmt.Errorf("%s: %w", src.Path, err)
			}
		}

		out, err := pageFile(publicDir, content.PermalinkPath(cfg.Permalink, "/", src))
		if err != nil {
			return err
		}
		if err := fileutil.WriteFileAtomic(out, []byte(page)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWritePage, out, err)
		}
		logger.Debug("page written", logfields.File(out))

		if cfg.PostAssetFolder && src.HasAssetDir() {
			n, err := fileutil.CopyDir(src.AssetDir, filepath.Dir(out))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrCopyAssets, src.AssetDir, err)
			}
			assetsCopied += n
		}
	}

	n, err := copySourceAssets(cfg.SourceDir, publicDir)
	if err != nil {
		return err
	}
	assetsCopied += n

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Generated %d posts (%d asset links fixed, %d files copied) in %s\n",
			len(posts), counter.links, assetsCopied, env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// pageFile maps an escaped permalink path to the file written under publicDir.
// Directory-shaped permalinks get an index.html.
func pageFile(publicDir, escapedPath string) (string, error) {
	p, err := url.PathUnescape(escapedPath)
	if err != nil {
		return "", fmt.Errorf("%w: permalink %q: %w", ErrWritePage, escapedPath, err)
	}
	p = path.Clean("/" + p)
	if strings.HasSuffix(escapedPath, "/") || path.Ext(p) == "" {
		p = path.Join(p, "index.html")
	}
	return filepath.Join(publicDir, filepath.FromSlash(p)), nil
}

// copySourceAssets copies the top-level directories of the source dir into
// publicDir, skipping "_"-prefixed and hidden ones such as _posts.
func copySourceAssets(sourceDir, publicDir string) (int, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCopyAssets, err)
	}

	copied := 0
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		n, err := fileutil.CopyDir(filepath.Join(sourceDir, name), filepath.Join(publicDir, name))
		if err != nil {
			return copied, fmt.Errorf("%w: %s: %w", ErrCopyAssets, name, err)
		}
		copied += n
	}
	return copied, nil
}
