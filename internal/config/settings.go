package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/yamlutil"
)

// ErrSettingsParse indicates the settings file exists but cannot be decoded.
var ErrSettingsParse = errors.New("failed to parse settings")

// SettingsFileName is the settings file inside the user config directory.
const SettingsFileName = "settings.yaml"

// Settings is the user state that outlives a single run.
type Settings struct {
	CustomCSS string `yaml:"customCSS"`
}

// storedSettings distinguishes an absent key (nil) from an explicit empty value.
type storedSettings struct {
	CustomCSS *string `yaml:"customCSS"`
}

// Store persists Settings as YAML. Load merges the file over the defaults the
// store was created with; writes are serialized and atomic.
type Store struct {
	path     string
	defaults Settings

	mu sync.Mutex
}

// NewStore returns a store for path. defaults fills keys missing from the
// file and is what Reset restores.
func NewStore(path string, defaults Settings) *Store {
	return &Store{path: path, defaults: defaults}
}

// DefaultSettingsPath returns the settings file under the user config directory.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, AppDir, SettingsFileName), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields the defaults.
// An explicitly empty customCSS is kept: the user asked for no stylesheet.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.defaults

	data, err := os.ReadFile(s.path) // #nosec G304 -- settings path comes from config or user dir
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings: %w", err)
	}
	if len(data) == 0 {
		return settings, nil
	}

	var stored storedSettings
	if err := yamlutil.UnmarshalStrict(data, &stored); err != nil {
		return settings, fmt.Errorf("%w: %s: %v", ErrSettingsParse, s.path, err)
	}
	if stored.CustomCSS != nil {
		settings.CustomCSS = *stored.CustomCSS
	}
	return settings, nil
}

// Save writes settings to disk, replacing the previous file atomically.
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(settings)
}

// Reset restores and saves the defaults, returning them.
func (s *Store) Reset() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(s.defaults); err != nil {
		return Settings{}, err
	}
	return s.defaults, nil
}

func (s *Store) write(settings Settings) error {
	data, err := yamlutil.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
