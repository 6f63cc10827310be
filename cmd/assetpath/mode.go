package main

// isLocalServerMode reports whether the invocation starts the preview server,
// the way hexo detects "hexo server" and "hexo s".
func isLocalServerMode(args []string) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "server", "s":
		return true
	}
	return false
}
