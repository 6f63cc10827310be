package content

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alnah/go-assetpath/internal/dateutil"
	"github.com/alnah/go-assetpath/internal/pipeline"
	"github.com/alnah/go-assetpath/internal/yamlutil"
)

// PostsDir is the directory under the source dir holding posts.
const PostsDir = "_posts"

// Source is a post read from disk, before rendering.
type Source struct {
	Path              string // Relative to the source dir, slash-separated ("_posts/hello.md")
	File              string // Absolute or cwd-relative path on disk
	AssetDir          string // Sibling directory named like the post file
	Title             string
	Slug              string    // Front matter slug, else the path under _posts without extension
	Date              time.Time // Front matter date, else file modification time
	PermalinkOverride string    // Front matter permalink, replaces the site pattern
	Body              string    // Normalized Markdown without front matter
}

// Sections splits the body at its "more" marker.
func (s *Source) Sections() pipeline.Sections {
	return pipeline.SplitMore(s.Body)
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Date      any    `yaml:"date"`
	Permalink string `yaml:"permalink"`
}

// Loader reads posts from a hexo-style source directory.
type Loader struct {
	sourceDir string
	loc       *time.Location
}

// NewLoader creates a Loader for sourceDir. Dates without a zone are read in
// loc (time.Local when nil).
func NewLoader(sourceDir string, loc *time.Location) *Loader {
	if loc == nil {
		loc = time.Local
	}
	return &Loader{sourceDir: sourceDir, loc: loc}
}

// Load reads every Markdown post under <source>/_posts, oldest first.
func (l *Loader) Load() ([]*Source, error) {
	root := filepath.Join(l.sourceDir, PostsDir)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrPostsDirNotFound, root)
	}

	var posts []*Source
	err = filepath.WalkDir(root, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isMarkdown(file) {
			return nil
		}
		post, err := l.LoadFile(file)
		if err != nil {
			return err
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Path < posts[j].Path
		}
		return posts[i].Date.Before(posts[j].Date)
	})
	return posts, nil
}

// LoadFile reads one post. file must live under the loader's _posts directory
// for Slug and Path to be meaningful.
func (l *Loader) LoadFile(file string) (*Source, error) {
	data, err := os.ReadFile(file) // #nosec G304 -- walked from the source dir
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadPost, err)
	}
	info, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadPost, err)
	}
	return l.Parse(file, data, info.ModTime())
}

// Parse builds a Source from raw file content. modTime is the date fallback.
func (l *Loader) Parse(file string, data []byte, modTime time.Time) (*Source, error) {
	front, body, found := yamlutil.SplitFrontMatter(data)

	var fm frontMatter
	if found {
		if err := yamlutil.Unmarshal(front, &fm); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFrontMatter, file, err)
		}
	}

	date, err := l.postDate(fm.Date, modTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	rel := l.relPath(file)
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	slug := strings.TrimPrefix(stem, PostsDir+"/")
	if fm.Slug != "" {
		slug = fm.Slug
	}

	title := fm.Title
	if title == "" {
		title = path.Base(slug)
	}

	return &Source{
		Path:              rel,
		File:              file,
		AssetDir:          strings.TrimSuffix(file, filepath.Ext(file)),
		Title:             title,
		Slug:              slug,
		Date:              date,
		PermalinkOverride: fm.Permalink,
		Body:              pipeline.NormalizeMarkdown(string(body)),
	}, nil
}

// postDate accepts the shapes YAML gives a date: a timestamp, a string, or
// nothing at all.
func (l *Loader) postDate(v any, modTime time.Time) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return modTime.In(l.loc), nil
	case time.Time:
		return d, nil
	case string:
		t, err := dateutil.ParseDate(d, l.loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrPostDate, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported value %v", ErrPostDate, v)
	}
}

// relPath returns file relative to the source dir with forward slashes.
func (l *Loader) relPath(file string) string {
	rel, err := filepath.Rel(l.sourceDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	return filepath.ToSlash(rel)
}

func isMarkdown(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// HasAssetDir reports whether the post's asset folder exists.
func (s *Source) HasAssetDir() bool {
	info, err := os.Stat(s.AssetDir)
	return err == nil && info.IsDir()
}
