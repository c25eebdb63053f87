package domain

import "time"

// ConnectionStatus reports the last known health of a source.
type ConnectionStatus string

const (
	// StatusConnected means the last validation succeeded.
	StatusConnected ConnectionStatus = "connected"

	// StatusDisconnected means the source has never been validated or
	// was explicitly disconnected.
	StatusDisconnected ConnectionStatus = "disconnected"

	// StatusError means the last validation failed.
	StatusError ConnectionStatus = "error"
)

// Source represents a configured search backend.
// It is created when a user connects a service, mutated on
// reconnect/disconnect, and deleted on explicit removal.
type Source struct {
	// ID is the unique identifier for the source (UUID).
	ID string

	// Type identifies the connector type (e.g., "jira", "github").
	Type string

	// Name is the human-readable name for this source. It becomes the
	// SourceLabel on every result the source produces.
	Name string

	// Enabled controls whether the source participates in searches.
	Enabled bool

	// Status is the last known connection status.
	Status ConnectionStatus

	// Config contains connector-specific configuration such as base
	// URL, workspace slug, or search engine ID.
	Config map[string]string

	// Credentials is the credential bag for this source.
	Credentials Credentials

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// DisplayName returns the source name, falling back to the connector
// type when no name was configured.
func (s *Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Type
}

// ConfigValue returns a config value, or the fallback when unset.
func (s *Source) ConfigValue(key, fallback string) string {
	if v, ok := s.Config[key]; ok && v != "" {
		return v
	}
	return fallback
}
