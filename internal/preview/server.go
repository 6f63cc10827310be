package preview

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-assetpath"
	"github.com/alnah/go-assetpath/internal/content"
	"github.com/alnah/go-assetpath/internal/dateutil"
	"github.com/alnah/go-assetpath/internal/logfields"
	"github.com/alnah/go-assetpath/internal/metrics"
	"github.com/alnah/go-assetpath/internal/pipeline"
)

// ErrIncompleteConfig indicates a required server dependency is missing.
var ErrIncompleteConfig = errors.New("incomplete preview server configuration")

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Hook rewrites a rendered post in place.
type Hook interface {
	AfterPostRender(post *assetpath.Post) error
}

// Config wires the server's collaborators.
type Config struct {
	SourceDir  string
	SiteTitle  string
	DateFormat string // moment-style, dateutil.DefaultDateFormat when empty
	CacheSize  int    // pages kept in memory, 0 disables the cache

	Loader   *content.Loader
	Renderer *content.Renderer
	Hook     Hook
	Page     *pipeline.PageRenderer

	Metrics  http.Handler // served on /metrics when set
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Server renders posts on request.
type Server struct {
	cfg    Config
	engine *gin.Engine
	cache  *pageCache
	logger *slog.Logger

	mu    sync.Mutex
	index map[string]*content.Source // escaped permalink path -> post
	gen   uint64                     // bumped by Invalidate
}

// New creates a Server. Loader, Renderer, Hook and Page are required.
func New(cfg Config) (*Server, error) {
	if cfg.Loader == nil || cfg.Renderer == nil || cfg.Hook == nil || cfg.Page == nil {
		return nil, ErrIncompleteConfig
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.DateFormat = cmp.Or(cfg.DateFormat, dateutil.DefaultDateFormat)

	cache, err := newPageCache(cfg.CacheSize, cfg.Recorder)
	if err != nil {
		return nil, fmt.Errorf("creating page cache: %w", err)
	}

	s := &Server{cfg: cfg, cache: cache, logger: cfg.Logger}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	engine.NoRoute(s.serve)
	s.engine = engine

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Invalidate drops cached pages and the post index. The next request reloads
// posts from disk.
func (s *Server) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
	s.gen++
	s.cache.purge()
}

// Run serves on addr and watches the source directory until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Watch(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", logfields.URL("http://"+addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	case err := <-watchErr:
		if err != nil {
			_ = srv.Close()
			return err
		}
		<-ctx.Done()
	case <-ctx.Done():
	}

	s.logger.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serve resolves a request to a post page, a per-post asset or a source file.
func (s *Server) serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	escaped := c.Request.URL.EscapedPath()
	if strings.HasSuffix(escaped, "/index.html") {
		escaped = strings.TrimSuffix(escaped, "index.html")
	}

	index, gen, err := s.postIndex()
	if err != nil {
		s.logger.Error("loading posts", logfields.Error(err))
		c.String(http.StatusInternalServerError, "loading posts failed")
		return
	}

	if src, ok := index[escaped]; ok {
		s.servePage(c, escaped, src, gen)
		return
	}
	if src, ok := index[escaped+"/"]; ok {
		s.servePage(c, escaped+"/", src, gen)
		return
	}

	if prefix, src, ok := longestPrefix(index, escaped); ok {
		rest := strings.TrimPrefix(escaped, prefix)
		if src.HasAssetDir() && s.serveFile(c, src.AssetDir, rest, false) {
			return
		}
		// asset_folder prefixes are relative to the page URL.
		if s.serveFile(c, s.cfg.SourceDir, rest, true) {
			return
		}
	}

	if s.serveFile(c, s.cfg.SourceDir, escaped, true) {
		return
	}

	c.String(http.StatusNotFound, "not found")
}

// servePage renders the post through the hook, or answers from the cache.
// gen is the index generation src was looked up in.
func (s *Server) servePage(c *gin.Context, key string, src *content.Source, gen uint64) {
	page, ok := s.cache.get(key)
	if !ok {
		body, err := s.render(c.Request.Context(), src)
		if err != nil {
			s.logger.Error("rendering post", logfields.Post(src.Path), logfields.Error(err))
			c.String(http.StatusInternalServerError, "rendering %s failed", src.Path)
			return
		}
		page = newCachedPage(body)
		s.storePage(key, page, gen)
	}

	if etagMatches(c.GetHeader("If-None-Match"), page.ETag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", `W/"`+page.ETag+`"`)
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Body)
}

func (s *Server) render(ctx context.Context, src *content.Source) ([]byte, error) {
	post, err := s.cfg.Renderer.Render(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Hook.AfterPostRender(&post); err != nil {
		return nil, err
	}

	date, err := dateutil.Format(post.Date, s.cfg.DateFormat)
	if err != nil {
		return nil, err
	}

	html, err := s.cfg.Page.Render(ctx, pipeline.PageData{
		SiteTitle: s.cfg.SiteTitle,
		Title:     post.Title,
		Date:      date,
		Permalink: post.Permalink,
		Content:   template.HTML(post.Content), // #nosec G203 -- rendered from the author's own Markdown
		Preview:   true,
	})
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// storePage caches page unless the index was invalidated while it rendered.
func (s *Server) storePage(key string, page cachedPage, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.cache.add(key, page)
}

// serveFile writes base/rest when it is a regular file. Hidden entries and,
// with skipPrivate, "_"-prefixed entries such as _posts are never served.
func (s *Server) serveFile(c *gin.Context, base, escapedRest string, skipPrivate bool) bool {
	if base == "" {
		return false
	}
	rest, err := url.PathUnescape(escapedRest)
	if err != nil {
		return false
	}
	rest = path.Clean("/" + rest)
	for _, seg := range strings.Split(rest, "/") {
		if strings.HasPrefix(seg, ".") || (skipPrivate && strings.HasPrefix(seg, "_")) {
			return false
		}
	}

	full := filepath.Join(base, filepath.FromSlash(rest))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return false
	}
	c.File(full)
	return true
}

// postIndex returns the permalink index and its generation, loading posts
// when it was invalidated.
func (s *Server) postIndex() (map[string]*content.Source, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index, s.gen, nil
	}

	posts, err := s.cfg.Loader.Load()
	if err != nil {
		return nil, 0, err
	}
	index := make(map[string]*content.Source, len(posts))
	for _, p := range posts {
		index[s.cfg.Renderer.PermalinkPath(p)] = p
	}
	s.index = index
	return index, s.gen, nil
}

// longestPrefix finds the post whose permalink directory contains p.
func longestPrefix(index map[string]*content.Source, p string) (string, *content.Source, bool) {
	var best string
	var src *content.Source
	for key, s := range index {
		if strings.HasSuffix(key, "/") && strings.HasPrefix(p, key) && len(key) > len(best) {
			best, src = key, s
		}
	}
	return best, src, src != nil
}

// requestLogger logs each request at debug level.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "request",
			logfields.Method(c.Request.Method),
			logfields.URL(c.Request.URL.Path),
			logfields.Status(c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
