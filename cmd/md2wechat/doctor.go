package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-md2wechat/internal/clipboard"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Clipboard clipboardInfo `json:"clipboard"`
	Chrome    chromeInfo    `json:"chrome"`
	Settings  settingsInfo  `json:"settings"`
	Env       envInfo       `json:"environment"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// clipboardInfo holds clipboard tool detection results.
type clipboardInfo struct {
	Supported bool   `json:"supported"`
	Backend   string `json:"backend,omitempty"`
	HTMLOnly  bool   `json:"html_only"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// settingsInfo holds settings file checks.
type settingsInfo struct {
	Path     string `json:"path,omitempty"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := runDoctor(env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkClipboard(result, env.LookPath)
	checkChrome(result)
	checkEnvironment(result)
	checkSettings(result, os.Getenv("MD2WECHAT_SETTINGS"))

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkClipboard detects the tool ConvertAndCopy would use.
func checkClipboard(result *doctorResult, lookPath func(string) (string, error)) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	cb := clipboard.Detect(runtime.GOOS, os.Getenv, lookPath)
	result.Clipboard.Supported = cb.Supported()
	result.Clipboard.Backend = cb.Backend()
	result.Clipboard.HTMLOnly = cb.HTMLOnly()
	if !cb.Supported() {
		result.Errors = append(result.Errors,
			"No clipboard tool found; copying is unavailable, use --output or --stdout")
	}
}

// checkChrome detects Chrome/Chromium, needed only for --preview.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; --preview is unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s; --preview is unavailable", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- detected browser path
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for --preview")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MD2WECHAT_CONTAINER") == "1" {
		return true, "MD2WECHAT_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSettings verifies the settings file can be read and saved.
// The directory is probed, never created.
func checkSettings(result *doctorResult, path string) {
	store, err := newSettingsStore(path)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No user config directory (%v); 'style set' needs --settings", err))
		return
	}
	result.Settings.Path = store.Path()

	if _, err := os.Stat(store.Path()); err == nil {
		result.Settings.Exists = true
		if _, err := store.Load(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Settings file unreadable: %v", err))
		}
	}

	dir := nearestExistingDir(filepath.Dir(store.Path()))
	probe, err := os.CreateTemp(dir, ".md2wechat-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Settings directory not writable: %s", dir))
		return
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	result.Settings.Writable = true
}

// nearestExistingDir walks up from dir to the first directory that exists.
func nearestExistingDir(dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2wechat doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Clipboard")
	if r.Clipboard.Supported {
		fmt.Fprintf(w, "  [OK] Backend: %s\n", r.Clipboard.Backend)
		if r.Clipboard.HTMLOnly {
			fmt.Fprintln(w, "  [WARN] Copies HTML only; plain-text editors paste nothing")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] No supported tool")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (preview)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Settings")
	if r.Settings.Path != "" {
		fmt.Fprintf(w, "  [OK] Path: %s\n", r.Settings.Path)
		if r.Settings.Exists {
			fmt.Fprintln(w, "  [OK] Saved stylesheet: present")
		} else {
			fmt.Fprintln(w, "  [OK] Saved stylesheet: none (built-in in use)")
		}
		if r.Settings.Writable {
			fmt.Fprintln(w, "  [OK] Writable: yes")
		} else {
			fmt.Fprintln(w, "  [ERROR] Writable: no")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] No settings location")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: READY")
	case "warnings":
		fmt.Fprintln(w, "Status: READY (with warnings)")
	default:
		fmt.Fprintln(w, "Status: NOT READY")
	}
}
