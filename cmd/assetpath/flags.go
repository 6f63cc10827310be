package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// Defaults for the server command, same as hexo's.
const (
	defaultHost = "localhost"
	defaultPort = 4000
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// generateFlags holds flags for the generate command.
type generateFlags struct {
	common commonFlags
	output string
	minify bool
}

// serverFlags holds flags for the server command.
type serverFlags struct {
	common    commonFlags
	host      string
	port      int
	cacheSize int
	noMetrics bool
}

// rewriteFlags holds flags for the rewrite command.
type rewriteFlags struct {
	common    commonFlags
	title     string
	slug      string
	date      string
	permalink string
	local     bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: public_dir)")
	fs.BoolVarP(&f.minify, "minify", "m", false, "minify generated pages")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapFlagError(err)
	}
	return f, fs.Args(), nil
}

// parseServerFlags parses server command flags and returns positional args.
func parseServerFlags(args []string) (*serverFlags, []string, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	f := &serverFlags{}

	fs.StringVar(&f.host, "host", defaultHost, "address to listen on")
	fs.IntVarP(&f.port, "port", "p", defaultPort, "port to listen on")
	fs.IntVar(&f.cacheSize, "cache", 128, "rendered pages kept in memory (0 = no cache)")
	fs.BoolVar(&f.noMetrics, "no-metrics", false, "do not serve /metrics")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printServerUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapFlagError(err)
	}
	return f, fs.Args(), nil
}

// parseRewriteFlags parses rewrite command flags and returns positional args.
func parseRewriteFlags(args []string) (*rewriteFlags, []string, error) {
	fs := flag.NewFlagSet("rewrite", flag.ContinueOnError)
	f := &rewriteFlags{}

	fs.StringVar(&f.title, "title", "", "post title")
	fs.StringVar(&f.slug, "slug", "", "post slug (default: slugified title)")
	fs.StringVar(&f.date, "date", "", "post date, e.g. 2021-05-03 (default: now)")
	fs.StringVar(&f.permalink, "permalink", "", "post permalink URL")
	fs.BoolVar(&f.local, "local", false, "rewrite for the local preview server")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printRewriteUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapFlagError(err)
	}
	return f, fs.Args(), nil
}
