package driving

import (
	"context"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// SourceService manages source configurations.
type SourceService interface {
	// Add creates a new source. A missing ID is generated.
	Add(ctx context.Context, source domain.Source) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Update modifies an existing source configuration.
	Update(ctx context.Context, source domain.Source) error

	// Remove deletes a source and its credentials.
	Remove(ctx context.Context, id string) error

	// SetEnabled flips the enabled flag on a source.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// TestConnection validates the source against its backend and
	// records the resulting connection status.
	TestConnection(ctx context.Context, id string) error
}
