package driven

import (
	"context"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// SettingsStore persists application settings.
type SettingsStore interface {
	// Load reads settings from storage. A missing file yields defaults.
	Load(ctx context.Context) (domain.AppSettings, error)

	// Save persists settings to storage.
	Save(ctx context.Context, settings domain.AppSettings) error

	// Path returns the settings file path.
	Path() string
}
