package main

// Notes:
// - poolAdapter: we test Acquire/Release/Size and panic on wrong type.
// - isCommand / looksLikeMarkdown: command name and implicit-convert detection.
// - runMain: exit codes and routing for each command, using an in-memory
//   Environment and a recording clipboard. Preview is not exercised here
//   (it needs Chrome).
// - hintFor: hint selection for well-known errors.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	md2wechat "github.com/alnah/go-md2wechat"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock converter
// ---------------------------------------------------------------------------

// wrongTypeConverter is a CLIConverter that is NOT *md2wechat.Converter.
type wrongTypeConverter struct{}

func (w *wrongTypeConverter) Convert(_ context.Context, _ md2wechat.Input) (*md2wechat.ConvertResult, error) {
	return &md2wechat.ConvertResult{HTML: "<p>mock</p>"}, nil
}

// ---------------------------------------------------------------------------
// TestPoolAdapter_Release_WrongType - Pool adapter type safety
// ---------------------------------------------------------------------------

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	pool := md2wechat.NewConverterPool(1)
	defer func() { _ = pool.Close() }()

	adapter := &poolAdapter{pool: pool}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for wrong type, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if !strings.Contains(msg, "unexpected type") {
			t.Errorf("panic message should contain 'unexpected type', got %q", msg)
		}
	}()

	adapter.Release(&wrongTypeConverter{})
}

// ---------------------------------------------------------------------------
// TestPoolAdapter_Size - Pool size reporting
// ---------------------------------------------------------------------------

func TestPoolAdapter_Size(t *testing.T) {
	t.Parallel()

	pool := md2wechat.NewConverterPool(3)
	defer func() { _ = pool.Close() }()

	adapter := &poolAdapter{pool: pool}

	if adapter.Size() != 3 {
		t.Errorf("Size() = %d, want 3", adapter.Size())
	}
}

// ---------------------------------------------------------------------------
// TestPoolAdapter_AcquireRelease - Pool acquire and release
// ---------------------------------------------------------------------------

func TestPoolAdapter_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := md2wechat.NewConverterPool(1, md2wechat.WithStylesheet(""))
	defer func() { _ = pool.Close() }()

	adapter := &poolAdapter{pool: pool}

	conv, err := adapter.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv == nil {
		t.Fatal("Acquire() returned nil")
	}
	adapter.Release(conv)

	again, err := adapter.Acquire()
	if err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if again != conv {
		t.Error("released converter should be reused")
	}
	adapter.Release(again)
}

func TestPoolAdapter_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := md2wechat.NewConverterPool(1)
	_ = pool.Close()

	if _, err := (&poolAdapter{pool: pool}).Acquire(); !errors.Is(err, md2wechat.ErrPoolClosed) {
		t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
	}
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"convert", true},
		{"style", true},
		{"doctor", true},
		{"version", true},
		{"help", true},
		{"foo", false},
		{"", false},
		{"note.md", false},
		{"Convert", false}, // case sensitive
		{"VERSION", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := isCommand(tt.input); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLooksLikeMarkdown - Implicit convert detection
// ---------------------------------------------------------------------------

func TestLooksLikeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"note.md", true},
		{"Note.MD", true},
		{"dir/post.markdown", true},
		{"-", true},
		{"note.txt", false},
		{"notes", false},
		{"md", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := looksLikeMarkdown(tt.input); got != tt.want {
				t.Errorf("looksLikeMarkdown(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Routing and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_NoArgs(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if code := runMain([]string{"md2wechat"}, env.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "Usage: md2wechat") {
		t.Errorf("stderr should show usage, got %q", env.stderr.String())
	}
}

func TestRunMain_UnknownCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if code := runMain([]string{"md2wechat", "frobnicate"}, env.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "unknown command: frobnicate") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestRunMain_Version(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"version", "--version"} {
		t.Run(arg, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			if code := runMain([]string{"md2wechat", arg}, env.Environment); code != ExitSuccess {
				t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
			}
			want := fmt.Sprintf("md2wechat %s\n", Version)
			if env.stdout.String() != want {
				t.Errorf("stdout = %q, want %q", env.stdout.String(), want)
			}
		})
	}
}

func TestRunMain_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"help", []string{"md2wechat", "help"}, "Usage: md2wechat <command>"},
		{"--help", []string{"md2wechat", "--help"}, "Usage: md2wechat <command>"},
		{"help convert", []string{"md2wechat", "help", "convert"}, "Usage: md2wechat convert"},
		{"help style", []string{"md2wechat", "help", "style"}, "Usage: md2wechat style"},
		{"help doctor", []string{"md2wechat", "help", "doctor"}, "Usage: md2wechat doctor"},
		{"convert --help", []string{"md2wechat", "convert", "--help"}, "Usage: md2wechat convert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			if code := runMain(tt.args, env.Environment); code != ExitSuccess {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr.String())
			}
			if !strings.Contains(env.stdout.String(), tt.want) {
				t.Errorf("stdout should contain %q, got %q", tt.want, env.stdout.String())
			}
		})
	}
}

func TestRunMain_ImplicitConvert(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, filepath.Join(t.TempDir(), "note.md"), "plain")
	env := newTestEnv("")

	code := runMain([]string{"md2wechat", path, "--stdout", "--style", "p { color: red; }"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), `<p style="color: red;">plain</p>`) {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if env.clipboard.count() != 0 {
		t.Error("--stdout must not touch the clipboard")
	}
}

func TestRunMain_StdinToClipboard(t *testing.T) {
	t.Parallel()

	env := newTestEnv("# Hello\n")
	code := runMain([]string{"md2wechat", "-", settingsFlag(t)}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr.String())
	}

	if env.clipboard.count() != 1 {
		t.Fatalf("clipboard writes = %d, want 1", env.clipboard.count())
	}
	got := env.clipboard.last()
	if got.Text != "# Hello\n" {
		t.Errorf("clipboard text = %q, want the original markdown", got.Text)
	}
	if !strings.Contains(got.HTML, "Hello</h1>") || strings.Contains(got.HTML, "<style") {
		t.Errorf("clipboard HTML = %q", got.HTML)
	}
	if !strings.Contains(env.stdout.String(), "Copied stdin to clipboard") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRunMain_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	note := writeTestFile(t, filepath.Join(dir, "note.md"), "text")
	txt := writeTestFile(t, filepath.Join(dir, "note.txt"), "text")
	settings := settingsFlag(t)

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  int
	}{
		{"missing file", []string{"convert", filepath.Join(dir, "missing.md"), "--stdout"}, "", ExitIO},
		{"wrong extension", []string{"convert", txt, "--stdout"}, "", ExitUsage},
		{"empty stdin", []string{"convert", "-", "--stdout", "--style", "p { }"}, "   \n", ExitUsage},
		{"unknown flag", []string{"convert", note, "--no-such-flag"}, "", ExitUsage},
		{"bad highlight", []string{"convert", note, "--stdout", "--highlight", "no-such-style"}, "", ExitUsage},
		{"unknown style", []string{"convert", note, "--stdout", "--style", "no-such-style"}, "", ExitUsage},
		{"bad timeout", []string{"convert", note, "--stdout", "--timeout", "soon"}, "", ExitUsage},
		{"too many workers", []string{"convert", note, "--workers", "99"}, "", ExitUsage},
		{"stdout with output", []string{"convert", note, "--stdout", "-o", dir}, "", ExitUsage},
		{"missing config", []string{"convert", note, "--config", filepath.Join(dir, "nope.yaml")}, "", ExitUsage},
		{"style without subcommand", []string{"style"}, "", ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.stdin)
			args := append(append([]string{"md2wechat"}, tt.args...), settings)
			if code := runMain(args, env.Environment); code != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.want, env.stderr.String())
			}
		})
	}
}

func TestRunMain_ClipboardFailure(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, filepath.Join(t.TempDir(), "note.md"), "text")
	env := newTestEnv("")
	env.clipboard.err = fmt.Errorf("%w: no clipboard tool found", md2wechat.ErrClipboardUnsupported)

	code := runMain([]string{"md2wechat", path, settingsFlag(t)}, env.Environment)
	if code != ExitClipboard {
		t.Errorf("exit code = %d, want %d", code, ExitClipboard)
	}
	if !strings.Contains(env.stderr.String(), "hint:") {
		t.Errorf("stderr should carry a hint, got %q", env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Hint selection
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"clipboard unsupported", md2wechat.ErrClipboardUnsupported, true},
		{"browser connect", fmt.Errorf("rendering preview: %w", md2wechat.ErrBrowserConnect), true},
		{"deadline", context.DeadlineExceeded, true},
		{"style not found", md2wechat.ErrStyleNotFound, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.wantHint != strings.Contains(got, "hint:") {
				t.Errorf("hintFor(%v) = %q, wantHint %v", tt.err, got, tt.wantHint)
			}
		})
	}
}
