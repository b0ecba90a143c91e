package main

// Notes:
// - Shared test infrastructure for the CLI: an in-memory Environment, a
//   recording clipboard and temp-file helpers.
// - Every convert test passes --settings or --style so the user's real
//   settings file is never read or written.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	md2wechat "github.com/alnah/go-md2wechat"
)

// ---------------------------------------------------------------------------
// Mock clipboard
// ---------------------------------------------------------------------------

type recordingClipboard struct {
	mu     sync.Mutex
	writes []md2wechat.ClipboardContent
	err    error
}

func (c *recordingClipboard) Write(_ context.Context, content md2wechat.ClipboardContent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, content)
	return nil
}

func (c *recordingClipboard) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func (c *recordingClipboard) last() md2wechat.ClipboardContent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.writes) == 0 {
		return md2wechat.ClipboardContent{}
	}
	return c.writes[len(c.writes)-1]
}

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	clipboard *recordingClipboard
}

func newTestEnv(stdin string) *testEnv {
	var stdout, stderr bytes.Buffer
	cb := &recordingClipboard{}
	return &testEnv{
		Environment: &Environment{
			Now:       func() time.Time { return time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC) },
			Stdout:    &stdout,
			Stderr:    &stderr,
			Stdin:     strings.NewReader(stdin),
			LookPath:  func(string) (string, error) { return "", os.ErrNotExist },
			Clipboard: cb,
		},
		stdout:    &stdout,
		stderr:    &stderr,
		clipboard: cb,
	}
}

// ---------------------------------------------------------------------------
// File helpers
// ---------------------------------------------------------------------------

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// settingsFlag returns a --settings argument pointing into a fresh temp dir.
func settingsFlag(t *testing.T) string {
	t.Helper()
	return "--settings=" + filepath.Join(t.TempDir(), "settings.yaml")
}
