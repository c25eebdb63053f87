package driving

import (
	"context"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings.
	Get(ctx context.Context) (domain.AppSettings, error)

	// Update persists new settings.
	Update(ctx context.Context, settings domain.AppSettings) error
}
