package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage indicates invalid arguments or flags.
var ErrUsage = errors.New("invalid usage")

// Command names.
const (
	cmdConvert = "convert"
	cmdStyle   = "style"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

func main() {
	verbose := false
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
		}
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args to a command and returns the exit code.
// A first argument that names a markdown file, "-", or a flag runs convert.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background(), env.Stderr)
	defer stop()

	name, rest := args[1], args[2:]
	switch {
	case name == "-h" || name == "--help":
		name, rest = cmdHelp, nil
	case name == "--version":
		name = cmdVersion
	case !isCommand(name) && (looksLikeMarkdown(name) || strings.HasPrefix(name, "-")):
		name, rest = cmdConvert, args[1:]
	}

	var err error
	switch name {
	case cmdConvert:
		err = runConvert(ctx, rest, env)
	case cmdStyle:
		err = runStyle(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "md2wechat %s\n", Version)
		return ExitSuccess
	case cmdHelp:
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", name)
		fmt.Fprintln(env.Stderr)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether s names a command.
func isCommand(s string) bool {
	switch s {
	case cmdConvert, cmdStyle, cmdDoctor, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// looksLikeMarkdown reports whether s is a markdown path or stdin.
func looksLikeMarkdown(s string) bool {
	if s == stdinArg {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".md" || ext == ".markdown"
}

// printError writes err with any hint that applies to it.
func printError(env *Environment, err error) {
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, md2wechat.ErrClipboardUnsupported):
		return hints.ForClipboardUnsupported()
	case errors.Is(err, md2wechat.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, md2wechat.ErrStyleNotFound):
		return hints.ForStyleNotFound(md2wechat.Styles())
	}
	return ""
}
