package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const rewriteConfig = "asset_path:\n  enable: true\n  asset_folder: \"assets/{{.post_slug}}\"\n"

// ---------------------------------------------------------------------------
// TestRewrite - Single fragment from stdin or a file
// ---------------------------------------------------------------------------

func TestRewrite(t *testing.T) {
	t.Parallel()

	configPath, dir := writeSite(t, rewriteConfig)
	fragmentPath := filepath.Join(dir, "fragment.html")
	writeFile(t, fragmentPath, `<img src="a.png">`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "stdin with slugified title",
			stdin: `<img src="a.png"><a href="https://x.org/">x</a>`,
			args:  []string{"--title", "Hello World"},
			want:  `<img src="assets/hello-world/a.png"><a href="https://x.org/">x</a>`,
		},
		{
			name:  "explicit dash",
			stdin: `<img src="a.png">`,
			args:  []string{"--slug", "post-x", "-"},
			want:  `<img src="assets/post-x/a.png">`,
		},
		{
			name: "file argument",
			args: []string{"--slug", "from-file", fragmentPath},
			want: `<img src="assets/from-file/a.png">`,
		},
		{
			name:  "local preview without per-post folders",
			stdin: `<img src="a.png">`,
			args:  []string{"--slug", "post-x", "--local"},
			want:  `<img src="assets/post-x/a.png">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(tt.stdin, nil)
			args := append([]string{"rewrite", "-c", configPath, "-q"}, tt.args...)
			if code := run(t, env, args...); code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if stdout.String() != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRewrite_PerPostFolders(t *testing.T) {
	t.Parallel()

	configPath, _ := writeSite(t, "post_asset_folder: true\nasset_path:\n  enable: true\n  asset_folder: static\n")

	tests := []struct {
		name  string
		local bool
		want  string
	}{
		{name: "build", want: `<img src="static/2021/05/03/x/a.png">`},
		{name: "local", local: true, want: `<img src="/2021/05/03/x/a.png">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(`<img src="a.png">`, nil)
			args := []string{"rewrite", "-c", configPath, "-q", "--permalink", "http://example.com/2021/05/03/x/"}
			if tt.local {
				args = append(args, "--local")
			}
			if code := run(t, env, args...); code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if stdout.String() != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRewrite_DateTemplate(t *testing.T) {
	t.Parallel()

	configPath, _ := writeSite(t, "asset_path:\n  enable: true\n  asset_folder: \"{{.post_created_date}}\"\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "date flag", args: []string{"--date", "2020-01-02"}, want: `<img src="2020-01-02/a.png">`},
		{name: "defaults to now", want: `<img src="2021-05-03/a.png">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(`<img src="a.png">`, nil)
			args := append([]string{"rewrite", "-c", configPath, "-q"}, tt.args...)
			if code := run(t, env, args...); code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if stdout.String() != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRewrite_EnvOverride(t *testing.T) {
	t.Parallel()

	configPath, _ := writeSite(t, rewriteConfig)
	env, stdout, stderr := testEnv(`<img src="a.png">`, map[string]string{"ASSETPATH_ENABLE": "false"})

	if code := run(t, env, "rewrite", "-c", configPath, "-q", "--slug", "x"); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout.String() != `<img src="a.png">` {
		t.Errorf("stdout = %q, want the fragment unchanged", stdout)
	}
}

func TestRewrite_LogsFixedLinks(t *testing.T) {
	t.Parallel()

	configPath, _ := writeSite(t, rewriteConfig)
	env, _, stderr := testEnv(`<img src="a.png">`, nil)

	if code := run(t, env, "rewrite", "-c", configPath, "--slug", "x"); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{"asset link fixed", "new=assets/x/a.png", "update asset links", "post=<stdin>", "changes=1"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr = %q, want %q", stderr, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRewrite_Errors - Exit codes
// ---------------------------------------------------------------------------

func TestRewrite_Errors(t *testing.T) {
	t.Parallel()

	configPath, dir := writeSite(t, rewriteConfig)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "bad date",
			args:     []string{"--date", "yesterday"},
			wantCode: ExitUsage,
			wantErr:  "invalid --date",
		},
		{
			name:     "too many args",
			args:     []string{"a.html", "b.html"},
			wantCode: ExitUsage,
			wantErr:  "at most one input file",
		},
		{
			name:     "missing input",
			args:     []string{filepath.Join(dir, "missing.html")},
			wantCode: ExitIO,
			wantErr:  "failed to read input",
		},
		{
			name:     "unknown flag",
			args:     []string{"--nope"},
			wantCode: ExitUsage,
			wantErr:  "invalid flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("", nil)
			args := append([]string{"rewrite", "-c", configPath, "-q"}, tt.args...)
			if code := run(t, env, args...); code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d; stderr = %s", code, tt.wantCode, stderr)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantErr)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing on error", stdout)
			}
		})
	}
}

func TestReadFragment(t *testing.T) {
	t.Parallel()

	fragment, name, err := readFragment(nil, strings.NewReader("<p>x</p>"))
	if err != nil {
		t.Fatalf("readFragment() error = %v", err)
	}
	if fragment != "<p>x</p>" || name != "<stdin>" {
		t.Errorf("readFragment() = %q, %q", fragment, name)
	}

	_, _, err = readFragment([]string{filepath.Join(t.TempDir(), "none.html")}, nil)
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("readFragment(missing) error = %v, want ErrReadInput", err)
	}
}
