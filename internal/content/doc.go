// Package content loads hexo-style posts from a source directory: front
// matter, permalinks, per-post asset folders and rendered HTML sections.
package content
