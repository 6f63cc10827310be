package assetpath

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alnah/go-assetpath/internal/logfields"
	"github.com/alnah/go-assetpath/internal/metrics"
	"github.com/alnah/go-assetpath/internal/pipeline"
)

// Change records one attribute value replaced in a post.
type Change = pipeline.Change

// Recorder receives per-post rewrite metrics.
type Recorder interface {
	ObserveRewrite(mode string, links int, d time.Duration)
	IncRewriteFailure(mode string)
}

// Rewriter is the render hook. It holds configuration only and is safe for
// concurrent use; every call builds its own Options.
type Rewriter struct {
	cfg          Config
	site         Site
	localPreview bool
	resolver     TemplateResolver
	logger       *slog.Logger
	recorder     Recorder
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLocalPreview composes links for the local preview server.
func WithLocalPreview(local bool) Option {
	return func(r *Rewriter) {
		r.localPreview = local
	}
}

// WithLogger sets the logger for rewrite records. nil discards them.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rewriter) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		r.logger = l
	}
}

// WithTemplateResolver replaces the folder template engine.
// Panics if tr is nil (programmer error).
func WithTemplateResolver(tr TemplateResolver) Option {
	if tr == nil {
		panic("assetpath: WithTemplateResolver resolver must not be nil")
	}
	return func(r *Rewriter) {
		r.resolver = tr
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Rewriter) {
		if rec == nil {
			rec = metrics.NoopRecorder{}
		}
		r.recorder = rec
	}
}

// NewRewriter creates a render hook for cfg. Defaults: production mode,
// TextTemplateResolver, discarded logs, no metrics.
func NewRewriter(cfg Config, site Site, opts ...Option) *Rewriter {
	r := &Rewriter{
		cfg:      cfg,
		site:     site,
		resolver: TextTemplateResolver{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AfterPostRender rewrites the asset links of a rendered post in place.
// A disabled configuration leaves the post untouched and is not validated.
// On error the post is left untouched.
func (r *Rewriter) AfterPostRender(post *Post) error {
	if !r.cfg.Enable {
		return nil
	}

	mode := modeLabel(r.localPreview)

	opts, err := BuildOptions(r.cfg, r.site, r.localPreview, r.resolver)
	if err != nil {
		r.recorder.IncRewriteFailure(mode)
		return err
	}

	start := time.Now()
	rewritten, changes, err := RewritePost(opts, *post)
	if err != nil {
		r.recorder.IncRewriteFailure(mode)
		return fmt.Errorf("rewriting %s: %w", post.Path, err)
	}

	for _, c := range changes {
		r.logger.Info("asset link fixed",
			logfields.New(c.New),
			logfields.Old(c.Old),
			logfields.Selector(c.Selector),
			logfields.Attribute(c.Attribute),
			logfields.Post(post.Path))
	}

	post.Content = rewritten.Content
	post.More = rewritten.More
	post.Excerpt = rewritten.Excerpt

	r.logger.Info("update asset links", logfields.Post(post.Path), logfields.Changes(len(changes)), logfields.Mode(mode))
	r.recorder.ObserveRewrite(mode, len(changes), time.Since(start))
	return nil
}

// RewritePost returns post with Content, More and Excerpt rewritten
// independently, and the changes in order. A disabled snapshot returns post
// as-is.
func RewritePost(opts *Options, post Post) (Post, []Change, error) {
	if !opts.enable {
		return post, nil, nil
	}

	src := post
	args := sync.OnceValues(func() (TemplateArgs, error) {
		return NewTemplateArgs(src, opts.site)
	})
	fix := func(value string) (string, error) {
		return composePath(opts, args, src.Permalink, value)
	}

	var all []Change
	for _, field := range []*string{&post.Content, &post.More, &post.Excerpt} {
		out, changes, err := pipeline.RewriteAttributes(*field, opts.rules, fix)
		if err != nil {
			return Post{}, nil, err
		}
		*field = out
		all = append(all, changes...)
	}

	return post, all, nil
}
