// Package clipboard writes rich text to the system clipboard through the
// platform's own tools: osascript on macOS, PowerShell on Windows, wl-copy or
// xclip elsewhere.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Sentinel errors for clipboard writes.
var (
	ErrUnsupported = errors.New("clipboard not supported")
	ErrWrite       = errors.New("clipboard write failed")
)

// Content is one clipboard write offered in two flavours.
type Content struct {
	HTML string // text/html
	Text string // text/plain
}

// Writer places content on the clipboard in a single write.
type Writer interface {
	Write(ctx context.Context, content Content) error
}

// command is one tool invocation fed through stdin.
type command struct {
	name  string
	args  []string
	stdin []byte
	// forks is set for tools that keep a child alive to own the selection;
	// their output is not captured or Run would wait for the child.
	forks bool
}

type backend struct {
	name     string
	build    func(Content) command
	htmlOnly bool
}

type runFunc func(ctx context.Context, cmd command) error

// Clipboard is a Writer backed by an OS tool.
type Clipboard struct {
	backend *backend
	run     runFunc
}

// Compile-time interface check.
var _ Writer = (*Clipboard)(nil)

// New detects the clipboard tool for the current platform.
func New() *Clipboard {
	return Detect(runtime.GOOS, os.Getenv, exec.LookPath)
}

// Detect picks a backend for goos from the tools lookPath can find.
// The returned Clipboard reports ErrUnsupported on Write when none is found.
func Detect(goos string, getenv func(string) string, lookPath func(string) (string, error)) *Clipboard {
	found := func(name string) bool {
		_, err := lookPath(name)
		return err == nil
	}

	c := &Clipboard{run: execRun}
	switch goos {
	case "darwin":
		if found("osascript") {
			c.backend = &backend{name: "osascript", build: macCommand}
		}
	case "windows":
		for _, shell := range []string{"powershell", "pwsh"} {
			if found(shell) {
				c.backend = &backend{name: shell, build: windowsCommand(shell)}
				break
			}
		}
	default:
		switch {
		case getenv("WAYLAND_DISPLAY") != "" && found("wl-copy"):
			c.backend = &backend{name: "wl-copy", build: wlCopyCommand, htmlOnly: true}
		case found("xclip"):
			c.backend = &backend{name: "xclip", build: xclipCommand, htmlOnly: true}
		}
	}
	return c
}

// Supported reports whether a clipboard tool was found.
func (c *Clipboard) Supported() bool {
	return c.backend != nil
}

// Backend names the tool in use, or "" when unsupported.
func (c *Clipboard) Backend() string {
	if c.backend == nil {
		return ""
	}
	return c.backend.name
}

// HTMLOnly reports whether the backend offers text/html without a plain-text
// flavour, so plain-text paste targets receive nothing.
func (c *Clipboard) HTMLOnly() bool {
	return c.backend != nil && c.backend.htmlOnly
}

// Write places content on the clipboard. Nothing is written when the
// platform has no supported tool.
func (c *Clipboard) Write(ctx context.Context, content Content) error {
	if c.backend == nil {
		return fmt.Errorf("%w: no clipboard tool found", ErrUnsupported)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.run(ctx, c.backend.build(content))
}

func execRun(ctx context.Context, c command) error {
	cmd := exec.CommandContext(ctx, c.name, c.args...) // #nosec G204 -- fixed tool names and arguments
	cmd.Stdin = bytes.NewReader(c.stdin)

	var stderr bytes.Buffer
	if !c.forks {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrWrite, c.name, err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrWrite, c.name, err)
	}
	return nil
}
