package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/todo-sync/internal/cli"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/tests/testutil"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, configPath, baseURL string, args ...string) result {
	t.Helper()

	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	full := []string{"--config", configPath}
	if baseURL != "" {
		full = append(full, "--base-url", baseURL)
	}
	cmd.SetArgs(append(full, args...))

	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/todos"
	srv.Close()
	return url
}

func TestCommands_AgainstReferenceServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantErr    string
		contains   []string
		notContain []string
	}{
		{
			name:     "list all",
			args:     []string{"list"},
			contains: []string{"[ ]    1  Learn Go", "[x]    2  Build Todo App", "Deploy to production"},
		},
		{
			name:       "list completed",
			args:       []string{"list", "--filter", "completed"},
			contains:   []string{"Build Todo App", "Style the terminal UI"},
			notContain: []string{"Learn Go"},
		},
		{
			name:    "list bad filter",
			args:    []string{"list", "--filter", "someday"},
			wantErr: "invalid filter",
		},
		{
			name:     "add",
			args:     []string{"add", "Write", "docs"},
			contains: []string{"[ ]    6  Write docs"},
		},
		{
			name:    "add blank",
			args:    []string{"add", "   "},
			wantErr: "empty",
		},
		{
			name:     "toggle",
			args:     []string{"toggle", "1"},
			contains: []string{"[x]    1  Learn Go"},
		},
		{
			name:    "toggle missing",
			args:    []string{"toggle", "99"},
			wantErr: "todo 99 not found",
		},
		{
			name:    "toggle bad id",
			args:    []string{"toggle", "abc"},
			wantErr: `invalid todo id "abc"`,
		},
		{
			name:     "edit title",
			args:     []string{"edit", "3", "--title", "Master generics"},
			contains: []string{"[ ]    3  Master generics"},
		},
		{
			name:     "edit both fields",
			args:     []string{"edit", "2", "--title", "Rebuild", "--completed=false"},
			contains: []string{"[ ]    2  Rebuild"},
		},
		{
			name:    "edit nothing",
			args:    []string{"edit", "2"},
			wantErr: "nothing to change",
		},
		{
			name:     "show",
			args:     []string{"show", "4"},
			contains: []string{"[x]    4  Style the terminal UI"},
		},
		{
			name:     "stats",
			args:     []string{"stats"},
			contains: []string{"Total:      5", "Completed:  2", "Completion: 40%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := testutil.NewTestServer(t)
			cfg := filepath.Join(t.TempDir(), "config.yaml")

			res := run(t, cfg, ts.BaseURL, tt.args...)
			if tt.wantErr != "" {
				if res.err == nil || !strings.Contains(res.err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", res.err, tt.wantErr)
				}
				return
			}
			if res.err != nil {
				t.Fatalf("unexpected error: %v (stderr %q)", res.err, res.stderr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, res.stdout)
				}
			}
			for _, unwanted := range tt.notContain {
				if strings.Contains(res.stdout, unwanted) {
					t.Errorf("stdout should not contain %q:\n%s", unwanted, res.stdout)
				}
			}
			if res.stderr != "" {
				t.Errorf("unexpected stderr: %q", res.stderr)
			}
		})
	}
}

func TestCommands_ChangesPersistOnServer(t *testing.T) {
	t.Parallel()

	ts := testutil.NewTestServer(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	if res := run(t, cfg, ts.BaseURL, "rm", "5"); res.err != nil || !strings.Contains(res.stdout, "Deleted todo 5") {
		t.Fatalf("rm: err=%v stdout=%q", res.err, res.stdout)
	}
	if res := run(t, cfg, ts.BaseURL, "add", "--completed", "Ship it"); res.err != nil {
		t.Fatalf("add: %v", res.err)
	}

	res := run(t, cfg, ts.BaseURL, "stats")
	if res.err != nil {
		t.Fatalf("stats: %v", res.err)
	}
	for _, want := range []string{"Total:      5", "Completed:  3", "Completion: 60%"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stats missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestCommands_Offline(t *testing.T) {
	t.Parallel()

	url := deadURL(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	t.Run("list falls back to samples", func(t *testing.T) {
		res := run(t, cfg, url, "list")
		if res.err != nil {
			t.Fatalf("list: %v", res.err)
		}
		if !strings.Contains(res.stdout, "Learn Go") {
			t.Errorf("stdout missing sample todo:\n%s", res.stdout)
		}
		if !strings.Contains(res.stderr, "could not be reached") {
			t.Errorf("stderr missing offline notice: %q", res.stderr)
		}
	})

	t.Run("add reports unsaved change", func(t *testing.T) {
		res := run(t, cfg, url, "add", "Lost")
		if !errors.Is(res.err, remote.ErrOffline) {
			t.Fatalf("err = %v, want ErrOffline", res.err)
		}
		if !strings.Contains(res.stdout, "Lost") {
			t.Errorf("stdout should still show the local todo: %q", res.stdout)
		}
	})

	t.Run("rm succeeds", func(t *testing.T) {
		res := run(t, cfg, url, "rm", "2")
		if res.err != nil {
			t.Fatalf("rm: %v", res.err)
		}
		if !strings.Contains(res.stderr, "could not be reached") {
			t.Errorf("stderr missing offline notice: %q", res.stderr)
		}
	})

	t.Run("show uses placeholder", func(t *testing.T) {
		res := run(t, cfg, url, "show", "7")
		if res.err != nil {
			t.Fatalf("show: %v", res.err)
		}
		if !strings.Contains(res.stdout, remote.OfflineTitle(7)) {
			t.Errorf("stdout = %q", res.stdout)
		}
	})
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	res := run(t, path, "http://example.test/todos", "config", "init")
	if res.err != nil {
		t.Fatalf("config init: %v", res.err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if res := run(t, path, "", "config", "init"); res.err == nil || !strings.Contains(res.err.Error(), "already exists") {
		t.Fatalf("second init err = %v, want already exists", res.err)
	}
	if res := run(t, path, "", "config", "init", "--force"); res.err != nil {
		t.Fatalf("init --force: %v", res.err)
	}

	// --force without --base-url rewrote the defaults.
	res = run(t, path, "", "config", "show")
	if res.err != nil {
		t.Fatalf("config show: %v", res.err)
	}
	if strings.Contains(res.stdout, "example.test") {
		t.Errorf("expected default base url after --force:\n%s", res.stdout)
	}

	if res := run(t, path, "http://other.test/todos", "config", "show"); !strings.Contains(res.stdout, "http://other.test/todos") {
		t.Errorf("--base-url not applied:\n%s", res.stdout)
	}
}
