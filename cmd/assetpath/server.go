package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-assetpath/internal/config"
	"github.com/alnah/go-assetpath/internal/metrics"
	"github.com/alnah/go-assetpath/internal/preview"
)

// ErrServe indicates the preview server stopped with an error.
var ErrServe = errors.New("preview server failed")

// runServer serves the site in local-preview mode until ctx is done.
func runServer(ctx context.Context, args []string, env *Environment, local bool, hc *hintContext) error {
	flags, _, err := parseServerFlags(args)
	if err != nil {
		return err
	}
	hc.configName = flags.common.config
	hc.port = flags.port

	cfg, err := loadSiteConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	hc.sourceDir = cfg.SourceDir

	srv, err := newPreviewServer(cfg, flags, env, local)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(flags.host, strconv.Itoa(flags.port))
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at http://%s%s. Press Ctrl+C to stop.\n", cfg.SourceDir, addr, cfg.Root)
	}
	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	return nil
}

// newPreviewServer wires the preview server for cfg.
func newPreviewServer(cfg *config.Config, flags *serverFlags, env *Environment, local bool) (*preview.Server, error) {
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	gin.SetMode(gin.ReleaseMode)

	recorder := metrics.NewPrometheusRecorder(nil)
	build, err := newSiteBuild(cfg, local, logger, recorder)
	if err != nil {
		return nil, err
	}

	pcfg := preview.Config{
		SourceDir:  cfg.SourceDir,
		SiteTitle:  cfg.Title,
		DateFormat: cfg.DateFormat,
		CacheSize:  flags.cacheSize,
		Loader:     build.loader,
		Renderer:   build.renderer,
		Hook:       build.rewriter,
		Page:       build.page,
		Recorder:   recorder,
		Logger:     logger,
	}
	if !flags.noMetrics {
		pcfg.Metrics = recorder.Handler()
	}
	return preview.New(pcfg)
}
