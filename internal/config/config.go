package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldOutOfRange = errors.New("field out of range")
)

// AppDir is the directory under os.UserConfigDir holding config and settings files.
const AppDir = "go-md2wechat"

// Field limits.
const (
	MaxPathLength      = 4096
	MaxStyleLength     = 256 * 1024 // style may hold CSS text
	MaxHighlightLength = 50
	MaxImageWorkers    = 64
	MinPreviewWidth    = 240
	MaxPreviewWidth    = 1920
)

// Config holds the per-run configuration read from a YAML file.
type Config struct {
	Style     string          `yaml:"style"` // name, path or CSS text; empty = saved settings CSS
	CSS       string          `yaml:"css"`   // extra CSS file appended last
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Vault     VaultConfig     `yaml:"vault"`
	Assets    AssetsConfig    `yaml:"assets"`
	Highlight HighlightConfig `yaml:"highlight"`
	Images    ImagesConfig    `yaml:"images"`
	Preview   PreviewConfig   `yaml:"preview"`
	Settings  SettingsConfig  `yaml:"settings"`
	Sanitize  bool            `yaml:"sanitize"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines where a directory conversion writes without --output.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// VaultConfig locates the notes directory images are resolved against.
type VaultConfig struct {
	Root string `yaml:"root"` // empty = source document's directory
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded styles only
}

// HighlightConfig selects the chroma style for fenced code.
type HighlightConfig struct {
	Style string `yaml:"style"`
}

// ImagesConfig bounds image embedding.
type ImagesConfig struct {
	Concurrency int `yaml:"concurrency"` // 0 = default
}

// PreviewConfig controls the PNG preview.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"` // CSS pixels, 0 = default
}

// SettingsConfig points at a settings file other than the default one.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// Validate checks field lengths and numeric ranges.
// LoadConfig calls it; callers building a Config by hand should too.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"style", c.Style, MaxStyleLength},
		{"css", c.CSS, MaxPathLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"vault.root", c.Vault.Root, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"highlight.style", c.Highlight.Style, MaxHighlightLength},
		{"settings.path", c.Settings.Path, MaxPathLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if c.Images.Concurrency < 0 || c.Images.Concurrency > MaxImageWorkers {
		return fmt.Errorf("%w: images.concurrency must be between 0 and %d, got %d",
			ErrFieldOutOfRange, MaxImageWorkers, c.Images.Concurrency)
	}
	if w := c.Preview.Width; w != 0 && (w < MinPreviewWidth || w > MaxPreviewWidth) {
		return fmt.Errorf("%w: preview.width must be between %d and %d, got %d",
			ErrFieldOutOfRange, MinPreviewWidth, MaxPreviewWidth, w)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every field at its zero default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is read as a path; anything else is
// searched as name.yaml / name.yml in the working directory, then in the
// user config directory. A missing file is an error, never a silent default.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
