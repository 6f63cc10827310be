// Package preview serves a site for local preview. Posts are rendered on
// request, passed through the asset path hook in local mode and cached until
// something under the source directory changes.
package preview
