package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driving"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings with a small cache so
// the web policy lookup on every web search does not hit the disk.
type SettingsService struct {
	store driven.SettingsStore

	mu     sync.RWMutex
	cached *domain.AppSettings
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the current settings, normalised.
func (s *SettingsService) Get(ctx context.Context) (domain.AppSettings, error) {
	s.mu.RLock()
	if s.cached != nil {
		settings := *s.cached
		s.mu.RUnlock()
		return settings, nil
	}
	s.mu.RUnlock()

	settings, err := s.store.Load(ctx)
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("load settings: %w", err)
	}
	settings = settings.Normalise()

	s.mu.Lock()
	s.cached = &settings
	s.mu.Unlock()
	return settings, nil
}

// Update persists new settings and refreshes the cache.
func (s *SettingsService) Update(ctx context.Context, settings domain.AppSettings) error {
	settings = settings.Normalise()
	if err := s.store.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	s.cached = &settings
	s.mu.Unlock()
	return nil
}

// Invalidate drops the cache so the next Get reloads from storage.
// Called by the settings file watcher on external edits.
func (s *SettingsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	logger.Debug("Settings cache invalidated")
}

// WebPolicy returns the current web policy, falling back to the
// default policy when settings cannot be loaded. Used as the policy
// provider for the web search connector.
func (s *SettingsService) WebPolicy() domain.WebPolicy {
	settings, err := s.Get(context.Background())
	if err != nil {
		logger.Warn("Falling back to default web policy: %v", err)
		return domain.DefaultAppSettings().WebPolicy
	}
	return settings.WebPolicy
}
