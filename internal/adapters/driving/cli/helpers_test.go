package cli

import (
	"context"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// mockSearchService returns canned results for CLI tests.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockSourceService records calls for CLI tests.
type mockSourceService struct {
	sources    []domain.Source
	source     *domain.Source
	err        error
	removedID  string
	enabledID  string
	enabledVal bool
	testedID   string
}

func (m *mockSourceService) Add(_ context.Context, source domain.Source) (*domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	source.ID = "generated-id"
	return &source, nil
}

func (m *mockSourceService) Get(_ context.Context, _ string) (*domain.Source, error) {
	return m.source, m.err
}

func (m *mockSourceService) List(_ context.Context) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockSourceService) Update(_ context.Context, _ domain.Source) error {
	return m.err
}

func (m *mockSourceService) Remove(_ context.Context, id string) error {
	m.removedID = id
	return m.err
}

func (m *mockSourceService) SetEnabled(_ context.Context, id string, enabled bool) error {
	m.enabledID = id
	m.enabledVal = enabled
	return m.err
}

func (m *mockSourceService) TestConnection(_ context.Context, id string) error {
	m.testedID = id
	return m.err
}

// mockSettingsService holds settings in memory for CLI tests.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get(_ context.Context) (domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Update(_ context.Context, settings domain.AppSettings) error {
	if m.err != nil {
		return m.err
	}
	m.settings = settings
	return nil
}

// setupTestServices installs mock services and returns the mocks plus a
// cleanup that restores the previous wiring.
func setupTestServices() (*mockSearchService, *mockSourceService, *mockSettingsService, func()) {
	oldSearch := searchService
	oldSource := sourceService
	oldSettings := settingsService
	oldCatalogue := connectorCatalogue

	search := &mockSearchService{
		results: []domain.SearchResult{
			{
				ID:          "jira-1-PAY-42",
				Title:       "PAY-42: Gateway timeout",
				Content:     "The payment gateway times out under load",
				SourceType:  domain.FamilyIssueTracker,
				SourceLabel: "Acme Jira",
				URL:         "https://acme.atlassian.net/browse/PAY-42",
				Score:       0.95,
			},
		},
	}
	source := &mockSourceService{}
	settings := &mockSettingsService{settings: domain.DefaultAppSettings()}

	searchService = search
	sourceService = source
	settingsService = settings
	connectorCatalogue = []domain.ConnectorType{
		{ID: "jira", Name: "Jira", Description: "Atlassian Jira issue tracker", Family: domain.FamilyIssueTracker, AuthMethod: domain.AuthMethodBasic},
	}

	return search, source, settings, func() {
		searchService = oldSearch
		sourceService = oldSource
		settingsService = oldSettings
		connectorCatalogue = oldCatalogue
	}
}

// resetSearchFlags restores search command flags to defaults between tests.
func resetSearchFlags() {
	searchMode = ""
	searchLimit = 0
	searchJSON = false
	searchSources = nil
	searchProject = ""
	searchAssignee = ""
	searchSince = ""
	searchUntil = ""
}
