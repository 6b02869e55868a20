// Package file provides a TOML file-backed config store.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore reads and writes settings as TOML. A missing config file
// is not an error: Load then returns the defaults, and the file is
// only created on the first Save.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a TOML config store under configDir.
// An empty configDir defaults to ~/.erules.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".erules")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the settings file, falling back to defaults when absent.
// Settings present in the file override defaults field by field, so a
// partial file stays valid across new options.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing config %s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save writes the settings as TOML, mode 0600: the file may name the
// environment variable holding an API key.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
