package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetpath <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate, g    Render posts into the public directory")
	fmt.Fprintln(w, "  server, s      Serve posts for local preview")
	fmt.Fprintln(w, "  rewrite        Rewrite asset links of one HTML fragment")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'assetpath help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: _config)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ASSETPATH_ENABLE, ASSETPATH_ASSET_FOLDER, ASSETPATH_ENABLE_CDN,")
	fmt.Fprintln(w, "  ASSETPATH_CDN_FOLDER, ASSETPATH_CDN_USE_HTTPS, ASSETPATH_POST_ASSET_FOLDER")
	fmt.Fprintln(w, "  override the matching _config.yml fields.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetpath generate [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every post under source_dir/_posts, rewrite its asset links for")
	fmt.Fprintln(w, "production and write it to public_dir.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: public_dir)")
	fmt.Fprintln(w, "  -m, --minify              Minify generated pages")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServerUsage prints usage for the server command.
func printServerUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetpath server [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve posts for local preview. Pages are rendered on request with")
	fmt.Fprintln(w, "local-preview asset links and re-rendered when source_dir changes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --host <addr>         Address to listen on (default: localhost)")
	fmt.Fprintln(w, "  -p, --port <n>            Port to listen on (default: 4000)")
	fmt.Fprintln(w, "      --cache <n>           Rendered pages kept in memory (default: 128)")
	fmt.Fprintln(w, "      --no-metrics          Do not serve /metrics")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRewriteUsage prints usage for the rewrite command.
func printRewriteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: assetpath rewrite [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite the asset links of one HTML fragment read from file or stdin")
	fmt.Fprintln(w, "and print it to stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Post:")
	fmt.Fprintln(w, "      --title <s>           Post title")
	fmt.Fprintln(w, "      --slug <s>            Post slug (default: slugified title)")
	fmt.Fprintln(w, "      --date <s>            Post date, e.g. 2021-05-03 (default: now)")
	fmt.Fprintln(w, "      --permalink <url>     Post permalink")
	fmt.Fprintln(w, "      --local               Rewrite for the local preview server")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate", "g":
		printGenerateUsage(env.Stdout)
	case "server", "s":
		printServerUsage(env.Stdout)
	case "rewrite":
		printRewriteUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: assetpath version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: assetpath help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
