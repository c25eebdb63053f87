package connectors

import (
	"fmt"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/connectors/ai/anthropic"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/ai/openai"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/bitbucket"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/confluence"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/github"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/jira"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/slack"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors/websearch"
	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.AdapterFactory = (*Factory)(nil)

// Factory creates adapters from source configurations. One scorer
// instance is shared across every adapter it builds.
type Factory struct {
	scorer driven.RelevanceScorer

	mu       sync.RWMutex
	builders map[string]driven.AdapterBuilder
}

// NewFactory creates an empty factory. Use DefaultFactory for one with
// every built-in connector registered.
func NewFactory(scorer driven.RelevanceScorer) *Factory {
	return &Factory{
		scorer:   scorer,
		builders: make(map[string]driven.AdapterBuilder),
	}
}

// DefaultFactory creates a factory with all built-in connectors
// registered. The policy provider supplies the web policy per search;
// nil falls back to the default policy.
func DefaultFactory(scorer driven.RelevanceScorer, policy websearch.PolicyProvider) *Factory {
	f := NewFactory(scorer)

	f.Register("jira", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return jira.New(s, sc)
	})
	f.Register("confluence", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return confluence.New(s, sc)
	})
	f.Register("github", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return github.New(s, sc)
	})
	f.Register("bitbucket", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return bitbucket.New(s, sc)
	})
	f.Register("slack", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return slack.New(s, sc)
	})
	f.Register("websearch", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return websearch.New(s, sc, policy)
	})
	f.Register("anthropic", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return anthropic.New(s, sc)
	})
	f.Register("openai", func(s domain.Source, sc driven.RelevanceScorer) (driven.SourceAdapter, error) {
		return openai.New(s, sc)
	})

	return f
}

// Register adds an adapter builder for the given connector type.
func (f *Factory) Register(connectorType string, builder driven.AdapterBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[connectorType] = builder
}

// Create returns an adapter for the given source.
func (f *Factory) Create(source domain.Source) (driven.SourceAdapter, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, source.Type)
	}
	return builder(source, f.scorer)
}

// Types returns the catalogue entries whose builders are registered,
// in catalogue order.
func (f *Factory) Types() []domain.ConnectorType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var types []domain.ConnectorType
	for _, ct := range Catalogue() {
		if _, ok := f.builders[ct.ID]; ok {
			types = append(types, ct)
		}
	}
	return types
}
