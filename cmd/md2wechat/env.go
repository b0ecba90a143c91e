package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	md2wechat "github.com/alnah/go-md2wechat"
)

// Environment holds the process-level collaborators of a CLI run.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	LookPath  func(string) (string, error)
	Clipboard md2wechat.ClipboardWriter // nil = system clipboard
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		LookPath: exec.LookPath,
	}
}
