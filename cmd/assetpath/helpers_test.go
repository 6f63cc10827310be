package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fixedNow is the clock every test environment uses.
var fixedNow = time.Date(2021, time.May, 3, 12, 0, 0, 0, time.UTC)

// testEnv returns an Environment over in-memory streams. vars feeds Getenv.
func testEnv(stdin string, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
	}, stdout, stderr
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

// writeSite creates a site with one post, its asset folder and a static
// directory, and returns the config path and the site root.
func writeSite(t *testing.T, extraConfig string) (configPath, dir string) {
	t.Helper()

	dir = t.TempDir()
	src := filepath.Join(dir, "source")

	configPath = filepath.Join(dir, "_config.yml")
	writeFile(t, configPath, fmt.Sprintf("title: Test Blog\nurl: http://example.com\ntimezone: UTC\nsource_dir: %q\npublic_dir: %q\n%s",
		src, filepath.Join(dir, "public"), extraConfig))

	writeFile(t, filepath.Join(src, "_posts", "hello.md"),
		"---\ntitle: Hello\ndate: \"2021-05-03 10:00:00\"\n---\n![p](photo.jpg)\n\n<!-- more -->\n\n[doc](files/doc.pdf)\n")
	writeFile(t, filepath.Join(src, "_posts", "hello", "photo.jpg"), "jpg")
	writeFile(t, filepath.Join(src, "static", "logo.png"), "png")
	return configPath, dir
}

func run(t *testing.T, env *Environment, args ...string) int {
	t.Helper()
	return runMain(context.Background(), append([]string{"assetpath"}, args...), env)
}
