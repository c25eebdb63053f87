// Package file provides the TOML settings store and its change
// watcher. Settings live in ~/.omnisearch/settings.toml.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// settingsFileName is the settings file name inside the config dir.
const settingsFileName = "settings.toml"

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore persists application settings as TOML.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store under the given config
// directory. If configDir is empty, defaults to ~/.omnisearch.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".omnisearch")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{
		path: filepath.Join(configDir, settingsFileName),
	}, nil
}

// Load reads settings from disk. A missing file yields defaults.
func (s *SettingsStore) Load(_ context.Context) (domain.AppSettings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultAppSettings(), nil
	}
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("reading settings: %w", err)
	}

	settings := domain.DefaultAppSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.AppSettings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}

// Save persists settings to disk. The write goes through a temp file
// plus rename so a crash never leaves a half-written settings file.
func (s *SettingsStore) Save(_ context.Context, settings domain.AppSettings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.path
}
