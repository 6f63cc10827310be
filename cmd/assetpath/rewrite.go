package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-assetpath"
	"github.com/alnah/go-assetpath/internal/content"
	"github.com/alnah/go-assetpath/internal/dateutil"
)

// Sentinel errors for the rewrite command.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrInvalidDate = errors.New("invalid --date")
	ErrTooManyArgs = errors.New("rewrite takes at most one input file")
)

// runRewrite rewrites one HTML fragment from a file or stdin and prints it.
func runRewrite(ctx context.Context, args []string, env *Environment, hc *hintContext) error {
	flags, rest, err := parseRewriteFlags(args)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidFlags, ErrTooManyArgs)
	}
	hc.configName = flags.common.config

	cfg, err := loadSiteConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	input, name, err := readFragment(rest, env.Stdin)
	if err != nil {
		return err
	}

	date := env.Now()
	if flags.date != "" {
		if date, err = dateutil.ParseDate(flags.date, cfg.Location()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDate, err)
		}
	}

	post := &assetpath.Post{
		Title:     flags.title,
		Slug:      cmp.Or(flags.slug, content.Slugify(flags.title)),
		Date:      date,
		Permalink: flags.permalink,
		Path:      name,
		Content:   input,
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	apCfg, apSite := rewriterSettings(cfg)
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	rw := assetpath.NewRewriter(apCfg, apSite,
		assetpath.WithLocalPreview(flags.local),
		assetpath.WithLogger(logger),
	)
	if err := rw.AfterPostRender(post); err != nil {
		return err
	}

	_, err = io.WriteString(env.Stdout, post.Content)
	return err
}

// readFragment reads the single file argument, or stdin when there is none
// or it is "-".
func readFragment(args []string, stdin io.Reader) (fragment, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-provided path
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), args[0], nil
}
