// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is the platform the clipboard hint is written for. Tests override it.
var GOOS = runtime.GOOS

// ForBrowserConnect returns hints for preview browser connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or drop --preview")

	return formatHints(hints)
}

// ForClipboardUnsupported tells the user which tool would enable clipboard
// writes on this platform, and how to get the HTML without one.
func ForClipboardUnsupported() string {
	var tool string
	switch GOOS {
	case "darwin":
		tool = "osascript must be on PATH"
	case "windows":
		tool = "powershell must be on PATH"
	default:
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			tool = "install wl-clipboard (wl-copy)"
		} else {
			tool = "install xclip"
		}
	}
	return formatHints([]string{tool, "or use --output / --stdout"})
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents or many images, use --timeout flag")
}

// ForConfigNotFound suggests --config and a user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2wechat") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the built-in style names.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForSettingsFile points at the settings override when the file is unusable.
func ForSettingsFile(path string) string {
	return format("fix or delete " + path + ", or run 'md2wechat style reset'")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
