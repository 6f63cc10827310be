// Package theme provides the page layout and stylesheet wrapped around
// rendered posts by the generate and server commands.
//
// A theme directory follows hexo's layout, with html/template in place of
// EJS:
//
//	{theme_dir}/
//	├── layout/
//	│   └── post.html     # executed with pipeline.PageData
//	└── source/
//	    └── css/
//	        └── style.css
//
// Files a theme does not provide come from the built-in theme, so a theme
// can override only the stylesheet or only the layout. Theme files are read
// through os.Root and cannot escape the theme directory.
package theme
