package main

// Notes:
// - Every case runs against a settings file in t.TempDir() via --settings.
// - "set" followed by "show" checks the round trip through the settings
//   store; "reset" must bring back the built-in stylesheet.

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunStyle - Saved stylesheet management
// ---------------------------------------------------------------------------

func TestRunStyle_SetShowReset(t *testing.T) {
	t.Parallel()

	settings := settingsFlag(t)
	css := writeTestFile(t, filepath.Join(t.TempDir(), "brand.css"), "h2 { color: #e8913c; }\n")

	env := newTestEnv("")
	if err := runStyle([]string{"set", css, settings}, env.Environment); err != nil {
		t.Fatalf("style set error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Saved stylesheet (23 bytes)") {
		t.Errorf("set output = %q", env.stdout.String())
	}

	env = newTestEnv("")
	if err := runStyle([]string{"show", settings}, env.Environment); err != nil {
		t.Fatalf("style show error = %v", err)
	}
	if got := env.stdout.String(); got != "h2 { color: #e8913c; }\n" {
		t.Errorf("show after set = %q", got)
	}

	env = newTestEnv("")
	if err := runStyle([]string{"reset", settings}, env.Environment); err != nil {
		t.Fatalf("style reset error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Restored built-in stylesheet") {
		t.Errorf("reset output = %q", env.stdout.String())
	}

	env = newTestEnv("")
	if err := runStyle([]string{"show", settings}, env.Environment); err != nil {
		t.Fatalf("style show error = %v", err)
	}
	if env.stdout.String() != md2wechat.DefaultCSS() {
		t.Error("show after reset should print the built-in stylesheet")
	}
}

func TestRunStyle_ShowWithoutFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if err := runStyle([]string{"show", settingsFlag(t)}, env.Environment); err != nil {
		t.Fatalf("style show error = %v", err)
	}
	if env.stdout.String() != md2wechat.DefaultCSS() {
		t.Error("show without a settings file should print the built-in stylesheet")
	}
}

func TestRunStyle_SetFromStdin(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	env := newTestEnv("p { line-height: 2; }")
	if err := runStyle([]string{"set", "-", "-q", "--settings", path}, env.Environment); err != nil {
		t.Fatalf("style set - error = %v", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet set printed %q", env.stdout.String())
	}

	got, err := config.NewStore(path, config.Settings{}).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.CustomCSS != "p { line-height: 2; }" {
		t.Errorf("saved CSS = %q", got.CustomCSS)
	}
}

func TestRunStyle_Path(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	env := newTestEnv("")
	if err := runStyle([]string{"path", "--settings", path}, env.Environment); err != nil {
		t.Fatalf("style path error = %v", err)
	}
	if strings.TrimSpace(env.stdout.String()) != path {
		t.Errorf("path = %q, want %q", env.stdout.String(), path)
	}
}

func TestRunStyle_List(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if err := runStyle([]string{"list"}, env.Environment); err != nil {
		t.Fatalf("style list error = %v", err)
	}
	lines := strings.Fields(env.stdout.String())
	if len(lines) != len(md2wechat.Styles()) {
		t.Errorf("list = %v, want %v", lines, md2wechat.Styles())
	}
}

func TestRunStyle_Errors(t *testing.T) {
	t.Parallel()

	corrupt := filepath.Join(t.TempDir(), "settings.yaml")
	writeTestFile(t, corrupt, "theme: dark\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no subcommand", []string{}, ErrUsage},
		{"unknown subcommand", []string{"paint"}, ErrUsage},
		{"set without file", []string{"set"}, ErrUsage},
		{"set missing file", []string{"set", filepath.Join(t.TempDir(), "nope.css")}, ErrReadCSS},
		{"unknown flag", []string{"show", "--colour"}, ErrUsage},
		{"corrupt settings", []string{"show", "--settings", corrupt}, config.ErrSettingsParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			args := tt.args
			if !strings.Contains(strings.Join(args, " "), "--settings") {
				args = append(args, settingsFlag(t))
			}
			if err := runStyle(args, env.Environment); !errors.Is(err, tt.wantErr) {
				t.Errorf("runStyle(%v) error = %v, want %v", args, err, tt.wantErr)
			}
		})
	}
}
