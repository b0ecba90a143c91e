package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-md2wechat/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2WECHAT_CONFIG: config file name or path
	Style      string        // MD2WECHAT_STYLE: style name, path or CSS text
	Vault      string        // MD2WECHAT_VAULT: notes vault root
	Settings   string        // MD2WECHAT_SETTINGS: settings file path
	InputDir   string        // MD2WECHAT_INPUT_DIR: default input directory
	OutputDir  string        // MD2WECHAT_OUTPUT_DIR: default output directory
	Timeout    time.Duration // MD2WECHAT_TIMEOUT: preview timeout
	Workers    int           // MD2WECHAT_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2WECHAT_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2WECHAT_CONFIG":     true,
	"MD2WECHAT_STYLE":      true,
	"MD2WECHAT_VAULT":      true,
	"MD2WECHAT_SETTINGS":   true,
	"MD2WECHAT_INPUT_DIR":  true,
	"MD2WECHAT_OUTPUT_DIR": true,
	"MD2WECHAT_TIMEOUT":    true,
	"MD2WECHAT_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2WECHAT_CONFIG"),
		Style:      os.Getenv("MD2WECHAT_STYLE"),
		Vault:      os.Getenv("MD2WECHAT_VAULT"),
		Settings:   os.Getenv("MD2WECHAT_SETTINGS"),
		InputDir:   os.Getenv("MD2WECHAT_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2WECHAT_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("MD2WECHAT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MD2WECHAT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized MD2WECHAT_* variable.
func warnUnknownEnvVars(logger *log.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2WECHAT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				logger.Warn("unknown environment variable (typo?)", "name", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables
// that are set. CLI flags are applied afterwards by mergeFlags, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.Vault != "" {
		cfg.Vault.Root = env.Vault
	}
	if env.Settings != "" {
		cfg.Settings.Path = env.Settings
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
