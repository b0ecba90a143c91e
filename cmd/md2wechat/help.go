package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a note to inline-styled HTML (default for .md arguments)")
	fmt.Fprintln(w, "  style      Show, set or reset the saved stylesheet")
	fmt.Fprintln(w, "  doctor     Check clipboard, browser and settings")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2wechat help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown to HTML with every style inlined, ready to paste")
	fmt.Fprintln(w, "into the WeChat editor. A single file is copied to the clipboard;")
	fmt.Fprintln(w, "directories, and files with --output, are written as .html files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Write .html files here instead of copying")
	fmt.Fprintln(w, "      --stdout              Print HTML instead of copying")
	fmt.Fprintln(w, "      --preview             Also write a PNG preview (requires Chrome)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for directories (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Preview timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "      --vault <dir>         Vault root for resolving image links")
	fmt.Fprintln(w, "      --sanitize            Strip unsafe raw HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file or CSS text")
	fmt.Fprintln(w, "                            (default: the stylesheet saved with 'style set')")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file appended last")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/{name}.css overrides")
	fmt.Fprintln(w, "      --highlight <name>    Code highlight style (default: github)")
	fmt.Fprintln(w, "      --settings <path>     Settings file holding the saved stylesheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printStyleUsage prints usage for the style command.
func printStyleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat style <show|set|reset|path|list> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manage the stylesheet convert uses when --style is not given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  show           Print the saved stylesheet")
	fmt.Fprintln(w, "  set <file|->   Save a stylesheet from a file or stdin")
	fmt.Fprintln(w, "  reset          Restore the built-in stylesheet")
	fmt.Fprintln(w, "  path           Print the settings file location")
	fmt.Fprintln(w, "  list           List built-in style names")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --settings <path>     Settings file (default: user config dir)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file whose settings.path to use")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the clipboard tool, Chrome for previews, and the settings file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Machine-readable output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdStyle:
		printStyleUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: md2wechat version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: md2wechat help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
