package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// styleFlags holds stylesheet-related flags.
type styleFlags struct {
	style     string // name, path or CSS text; replaces the saved stylesheet
	css       string // extra CSS file appended last
	assetPath string // directory overriding built-in styles
	highlight string // chroma style for code blocks
}

// outputFlags selects where the converted HTML goes.
type outputFlags struct {
	output  string // directory (or .html file) to write instead of copying
	stdout  bool   // print HTML instead of copying
	preview bool   // also write a PNG preview
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	style    styleFlags
	out      outputFlags
	vault    string
	settings string
	sanitize bool
	workers  int
	timeout  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "style name, CSS file or CSS text (default: saved stylesheet)")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/{name}.css overrides")
	fs.StringVar(&f.highlight, "highlight", "", "code highlight style (default: github)")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "write .html files to this directory instead of copying")
	fs.BoolVar(&f.stdout, "stdout", false, "print HTML to stdout instead of copying")
	fs.BoolVar(&f.preview, "preview", false, "also write a PNG preview (requires Chrome)")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVar(&f.vault, "vault", "", "notes vault root for resolving images")
	fs.StringVar(&f.settings, "settings", "", "settings file holding the saved stylesheet")
	fs.BoolVar(&f.sanitize, "sanitize", false, "strip unsafe raw HTML")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for directories (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "preview timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)
	addOutputFlags(fs, &f.out)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			fs.Usage()
		}
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// styleCmdFlags holds flags for the style command.
type styleCmdFlags struct {
	common   commonFlags
	settings string
}

// parseStyleFlags parses style command flags and returns positional args.
func parseStyleFlags(args []string, usage io.Writer) (*styleCmdFlags, []string, error) {
	f := &styleCmdFlags{}
	fs := flag.NewFlagSet("style", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printStyleUsage(usage) }

	fs.StringVar(&f.settings, "settings", "", "settings file holding the saved stylesheet")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			fs.Usage()
		}
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
