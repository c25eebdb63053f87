package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driving"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore driven.SourceStore
	factory     driven.AdapterFactory
}

// NewSourceService creates a new source service.
func NewSourceService(sourceStore driven.SourceStore, factory driven.AdapterFactory) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		factory:     factory,
	}
}

// Add creates a new source configuration. A missing ID is generated,
// required config keys are validated against the connector catalogue,
// and the source starts disconnected until its first connection test.
func (s *SourceService) Add(ctx context.Context, source domain.Source) (*domain.Source, error) {
	connType, err := s.connectorType(source.Type)
	if err != nil {
		return nil, err
	}

	if connType.RequiresAuth() && !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: %s sources need a token", domain.ErrAuthRequired, source.Type)
	}
	if err := validateConfig(connType, source.Config); err != nil {
		return nil, err
	}

	if source.ID == "" {
		source.ID = uuid.NewString()
	} else if existing, getErr := s.sourceStore.Get(ctx, source.ID); getErr == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	now := time.Now()
	source.CreatedAt = now
	source.UpdatedAt = now
	source.Status = domain.StatusDisconnected

	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}

	logger.Info("Added source %s (%s)", source.DisplayName(), source.Type)
	return &source, nil
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return s.sourceStore.Get(ctx, id)
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sourceStore.List(ctx)
}

// Update modifies an existing source configuration.
func (s *SourceService) Update(ctx context.Context, source domain.Source) error {
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	existing, err := s.sourceStore.Get(ctx, source.ID)
	if err != nil {
		return err
	}

	source.CreatedAt = existing.CreatedAt
	source.UpdatedAt = time.Now()
	return s.sourceStore.Save(ctx, source)
}

// Remove deletes a source and its credentials.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	if _, err := s.sourceStore.Get(ctx, id); err != nil {
		return err
	}
	return s.sourceStore.Delete(ctx, id)
}

// SetEnabled flips the enabled flag on a source.
func (s *SourceService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	source, err := s.sourceStore.Get(ctx, id)
	if err != nil {
		return err
	}
	source.Enabled = enabled
	source.UpdatedAt = time.Now()
	return s.sourceStore.Save(ctx, *source)
}

// TestConnection validates the source against its backend and records
// the resulting connection status. The validation error, if any, is
// returned to the caller after the status update.
func (s *SourceService) TestConnection(ctx context.Context, id string) error {
	source, err := s.sourceStore.Get(ctx, id)
	if err != nil {
		return err
	}

	adapter, err := s.factory.Create(*source)
	if err != nil {
		return fmt.Errorf("create adapter: %w", err)
	}
	defer adapter.Close() //nolint:errcheck

	validateErr := adapter.Validate(ctx)

	source.Status = domain.StatusConnected
	if validateErr != nil {
		source.Status = domain.StatusError
		logger.Warn("Connection test failed for %s: %v", source.DisplayName(), validateErr)
	}
	source.UpdatedAt = time.Now()

	if saveErr := s.sourceStore.Save(ctx, *source); saveErr != nil {
		return fmt.Errorf("save status: %w", saveErr)
	}
	return validateErr
}

// connectorType looks up the catalogue entry for a connector type.
func (s *SourceService) connectorType(id string) (*domain.ConnectorType, error) {
	for _, ct := range s.factory.Types() {
		if ct.ID == id {
			return &ct, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, id)
}

// validateConfig checks that all required config keys are present.
func validateConfig(connType *domain.ConnectorType, config map[string]string) error {
	var missing []string
	for _, key := range connType.ConfigKeys {
		if !key.Required {
			continue
		}
		if v, ok := config[key.Key]; !ok || v == "" {
			missing = append(missing, key.Key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required config keys %v", domain.ErrInvalidInput, missing)
	}
	return nil
}
