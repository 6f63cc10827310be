// Package pipeline implements the HTML stages of post rendering.
//
// This package handles:
//   - Markdown normalization and the "more" split (excerpt / remainder)
//   - Markdown to HTML fragments via Goldmark
//   - URI classification for asset references
//   - Selector-driven attribute rewriting that splices new values into the
//     source bytes instead of re-serializing the tree
//   - Page layout and minification for generated output
//
// Deciding what a rewritten path should be is the root assetpath package's job;
// this package only finds the values and puts the answers back.
package pipeline
