package assetpath

// Notes:
// - Logging is asserted by decoding the JSON handler output line by line
// - The metrics recorder is a fake; the Prometheus implementation is tested
//   in internal/metrics

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeRecorder struct {
	mu       sync.Mutex
	rewrites []int
	modes    []string
	failures int
}

func (f *fakeRecorder) ObserveRewrite(mode string, links int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewrites = append(f.rewrites, links)
	f.modes = append(f.modes, mode)
}

func (f *fakeRecorder) IncRewriteFailure(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
}

// ---------------------------------------------------------------------------
// TestAfterPostRender_EndToEnd - Full hook scenarios
// ---------------------------------------------------------------------------

func TestAfterPostRender_EndToEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   Config
		site  Site
		local bool
		want  string
	}{
		{
			name:  "local preview with per-post folders",
			cfg:   Config{Enable: true},
			site:  Site{PostAssetFolder: true},
			local: true,
			want:  `<img src="/2021/05/post-x/photo.jpg">`,
		},
		{
			name: "build with static asset folder",
			cfg:  Config{Enable: true, AssetFolder: "static"},
			want: `<img src="static/photo.jpg">`,
		},
		{
			name: "build with CDN",
			cfg:  Config{Enable: true, AssetFolder: "static", EnableCDN: true, CDNFolder: "cdn.example.com", CDNUseHTTPS: true},
			want: `<img src="https://cdn.example.com/photo.jpg">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			post := &Post{Permalink: "/2021/05/post-x/", Content: `<img src="photo.jpg">`}
			rw := NewRewriter(tt.cfg, tt.site, WithLocalPreview(tt.local))

			if err := rw.AfterPostRender(post); err != nil {
				t.Fatalf("AfterPostRender() error = %v", err)
			}
			if post.Content != tt.want {
				t.Errorf("Content = %q, want %q", post.Content, tt.want)
			}
		})
	}
}

func TestAfterPostRender_AllFields(t *testing.T) {
	t.Parallel()

	post := &Post{
		Title:     "Hello",
		Slug:      "hello",
		Permalink: "http://example.com/hello/",
		Path:      "_posts/hello.md",
		Content:   `<p><img src="a.png"></p><p><a href="b.pdf">b</a></p>`,
		Excerpt:   `<p><img src="a.png"></p>`,
		More:      `<p><a href="b.pdf">b</a></p>`,
	}
	before := *post

	rw := NewRewriter(Config{Enable: true, AssetFolder: "assets/{{.post_slug}}"}, Site{})
	if err := rw.AfterPostRender(post); err != nil {
		t.Fatalf("AfterPostRender() error = %v", err)
	}

	if want := `<p><img src="assets/hello/a.png"></p><p><a href="assets/hello/b.pdf">b</a></p>`; post.Content != want {
		t.Errorf("Content = %q, want %q", post.Content, want)
	}
	if want := `<p><img src="assets/hello/a.png"></p>`; post.Excerpt != want {
		t.Errorf("Excerpt = %q, want %q", post.Excerpt, want)
	}
	if want := `<p><a href="assets/hello/b.pdf">b</a></p>`; post.More != want {
		t.Errorf("More = %q, want %q", post.More, want)
	}
	if post.Title != before.Title || post.Slug != before.Slug || post.Permalink != before.Permalink || post.Path != before.Path {
		t.Errorf("identifier fields changed: %+v", post)
	}
}

func TestAfterPostRender_MisnestedLinksPrefixedOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		html string
		want string
	}{
		{
			html: `<p><a href="doc.pdf">link <div>block</div></a></p>`,
			want: `<p><a href="static/doc.pdf">link <div>block</div></a></p>`,
		},
		{
			html: `<a href="x.png">1<p>2</a>3`,
			want: `<a href="static/x.png">1<p>2</a>3`,
		},
		{
			html: `<b><a href="x.png">1<p>2</b>3</a>`,
			want: `<b><a href="static/x.png">1<p>2</b>3</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			t.Parallel()

			rw := NewRewriter(Config{Enable: true, AssetFolder: "static"}, Site{})
			post := &Post{Content: tt.html}
			if err := rw.AfterPostRender(post); err != nil {
				t.Fatalf("AfterPostRender() error = %v", err)
			}
			if post.Content != tt.want {
				t.Errorf("Content = %q, want %q", post.Content, tt.want)
			}
		})
	}
}

func TestAfterPostRender_DateFormatOnlyWhenTemplated(t *testing.T) {
	t.Parallel()

	site := Site{PostAssetFolder: true, DateFormat: "[unclosed"}

	// Local preview with per-post folders resolves no folder template.
	rw := NewRewriter(Config{Enable: true, AssetFolder: "{{.post_created_date}}"}, site, WithLocalPreview(true))
	post := &Post{Permalink: "/2021/05/post-x/", Content: `<img src="photo.jpg">`}
	if err := rw.AfterPostRender(post); err != nil {
		t.Fatalf("AfterPostRender() error = %v, want nil when no template is resolved", err)
	}
	if want := `<img src="/2021/05/post-x/photo.jpg">`; post.Content != want {
		t.Errorf("Content = %q, want %q", post.Content, want)
	}

	// A build resolves the asset folder, so the bad format surfaces.
	rw = NewRewriter(Config{Enable: true, AssetFolder: "{{.post_created_date}}"}, site)
	post = &Post{Permalink: "/2021/05/post-x/", Content: `<img src="photo.jpg">`}
	if err := rw.AfterPostRender(post); !errors.Is(err, ErrTemplateResolution) {
		t.Errorf("AfterPostRender() error = %v, want ErrTemplateResolution", err)
	}
}

// ---------------------------------------------------------------------------
// TestAfterPostRender_Disabled - No-op before validation
// ---------------------------------------------------------------------------

func TestAfterPostRender_Disabled(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	// Invalid on purpose: no asset_folder, CDN without folder.
	rw := NewRewriter(Config{Enable: false, EnableCDN: true}, Site{}, WithRecorder(rec))

	post := &Post{Content: `<img src="photo.jpg">`}
	if err := rw.AfterPostRender(post); err != nil {
		t.Fatalf("AfterPostRender() error = %v, want nil", err)
	}
	if post.Content != `<img src="photo.jpg">` {
		t.Errorf("Content = %q, want unchanged", post.Content)
	}
	if len(rec.rewrites) != 0 || rec.failures != 0 {
		t.Errorf("recorder called for disabled rewriter: %+v", rec)
	}
}

// ---------------------------------------------------------------------------
// TestAfterPostRender_Errors - Failures leave the post untouched
// ---------------------------------------------------------------------------

func TestAfterPostRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "configuration",
			cfg:     Config{Enable: true},
			wantErr: ErrConfiguration,
		},
		{
			name:    "template",
			cfg:     Config{Enable: true, AssetFolder: "{{.nope}}"},
			wantErr: ErrTemplateResolution,
		},
		{
			name:    "selector",
			cfg:     Config{Enable: true, AssetFolder: "a", Selectors: Selectors{{Selector: "img[", Attribute: "src"}}},
			wantErr: ErrInvalidSelector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &fakeRecorder{}
			rw := NewRewriter(tt.cfg, Site{}, WithRecorder(rec))
			post := &Post{Path: "_posts/x.md", Content: `<img src="photo.jpg">`}

			err := rw.AfterPostRender(post)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AfterPostRender() error = %v, want %v", err, tt.wantErr)
			}
			if post.Content != `<img src="photo.jpg">` {
				t.Errorf("Content = %q, want unchanged", post.Content)
			}
			if rec.failures != 1 {
				t.Errorf("failures = %d, want 1", rec.failures)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAfterPostRender_Observability - Log records and metrics
// ---------------------------------------------------------------------------

func TestAfterPostRender_Observability(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	rec := &fakeRecorder{}

	rw := NewRewriter(
		Config{Enable: true, AssetFolder: "assets"},
		Site{},
		WithLogger(logger),
		WithRecorder(rec),
	)

	post := &Post{
		Path:    "_posts/x.md",
		Content: `<img src="a.png"><a href="b.html">x</a><img src="/abs.png">`,
		More:    `<img src="a.png">`,
	}
	if err := rw.AfterPostRender(post); err != nil {
		t.Fatalf("AfterPostRender() error = %v", err)
	}

	var fixed []string
	var updates int
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", sc.Text(), err)
		}
		switch entry["msg"] {
		case "asset link fixed":
			fixed = append(fixed, entry["new"].(string))
		case "update asset links":
			updates++
			if entry["post"] != "_posts/x.md" {
				t.Errorf("update record post = %v", entry["post"])
			}
		}
	}

	want := []string{"assets/a.png", "assets/b.html", "assets/a.png"}
	if len(fixed) != len(want) {
		t.Fatalf("fixed records = %v, want %v", fixed, want)
	}
	for i := range want {
		if fixed[i] != want[i] {
			t.Errorf("fixed[%d] = %q, want %q", i, fixed[i], want[i])
		}
	}
	if updates != 1 {
		t.Errorf("update records = %d, want 1", updates)
	}

	if len(rec.rewrites) != 1 || rec.rewrites[0] != 3 || rec.modes[0] != "production" {
		t.Errorf("recorder = %+v, want one production rewrite with 3 links", rec)
	}
}

func TestRewriter_NilOptionsFallBack(t *testing.T) {
	t.Parallel()

	rw := NewRewriter(Config{Enable: true, AssetFolder: "a"}, Site{}, WithLogger(nil), WithRecorder(nil))
	post := &Post{Content: `<img src="x.png">`}
	if err := rw.AfterPostRender(post); err != nil {
		t.Fatalf("AfterPostRender() error = %v", err)
	}
	if post.Content != `<img src="a/x.png">` {
		t.Errorf("Content = %q", post.Content)
	}
}

func TestWithTemplateResolver_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTemplateResolver(nil) did not panic")
		}
	}()
	WithTemplateResolver(nil)
}

type upperResolver struct{}

func (upperResolver) Resolve(tmpl string, _ TemplateArgs) (string, error) {
	return "X-" + tmpl, nil
}

func TestWithTemplateResolver(t *testing.T) {
	t.Parallel()

	rw := NewRewriter(Config{Enable: true, AssetFolder: "static"}, Site{}, WithTemplateResolver(upperResolver{}))
	post := &Post{Content: `<img src="x.png">`}
	if err := rw.AfterPostRender(post); err != nil {
		t.Fatalf("AfterPostRender() error = %v", err)
	}
	if post.Content != `<img src="X-static/x.png">` {
		t.Errorf("Content = %q", post.Content)
	}
}

// ---------------------------------------------------------------------------
// TestRewritePost - Snapshot-level pipeline
// ---------------------------------------------------------------------------

func TestRewritePost_AttributeScoped(t *testing.T) {
	t.Parallel()

	cfg := Config{Enable: true, AssetFolder: "assets", Selectors: Selectors{{Selector: "img", Attribute: "src"}}}
	opts := mustOptions(t, cfg, Site{}, false)

	in := Post{Content: `<a href="page.html"><img src="a.png" alt="x"></a>`}
	out, changes, err := RewritePost(opts, in)
	if err != nil {
		t.Fatalf("RewritePost() error = %v", err)
	}
	if want := `<a href="page.html"><img src="assets/a.png" alt="x"></a>`; out.Content != want {
		t.Errorf("Content = %q, want %q", out.Content, want)
	}
	if len(changes) != 1 || changes[0].Old != "a.png" || changes[0].New != "assets/a.png" {
		t.Errorf("changes = %+v", changes)
	}
	if in.Content != `<a href="page.html"><img src="a.png" alt="x"></a>` {
		t.Error("RewritePost() mutated its input")
	}
}

func TestRewritePost_NoMatchUnchanged(t *testing.T) {
	t.Parallel()

	opts := mustOptions(t, Config{Enable: true, AssetFolder: "assets"}, Site{}, false)
	content := "<div class=note>\n  <P>Text &amp; more</P>\n</div>"

	out, changes, err := RewritePost(opts, Post{Content: content, Excerpt: content})
	if err != nil {
		t.Fatalf("RewritePost() error = %v", err)
	}
	if out.Content != content || out.Excerpt != content {
		t.Errorf("fragment changed: %q", out.Content)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %+v, want none", changes)
	}
}

func TestRewritePost_DisabledSnapshot(t *testing.T) {
	t.Parallel()

	opts := mustOptions(t, Config{Enable: false, AssetFolder: "assets"}, Site{}, false)
	in := Post{Content: `<img src="a.png">`}

	out, changes, err := RewritePost(opts, in)
	if err != nil {
		t.Fatalf("RewritePost() error = %v", err)
	}
	if out != in || changes != nil {
		t.Errorf("RewritePost() = %+v, %+v, want input unchanged", out, changes)
	}
}
