package domain

// ConnectorType describes a supported connector.
type ConnectorType struct {
	// ID is the unique identifier (e.g., "jira", "github").
	ID string
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the connector.
	Description string
	// Family classifies the backend for mode selection.
	Family Family
	// AuthMethod specifies how the connector authenticates.
	AuthMethod AuthMethod
	// ConfigKeys lists the configuration fields the connector reads.
	ConfigKeys []ConfigKey
}

// RequiresAuth returns true if this connector requires credentials.
func (c *ConnectorType) RequiresAuth() bool {
	return c.AuthMethod != AuthMethodNone
}

// ConfigKey describes a configuration field for a connector.
type ConfigKey struct {
	// Key is the configuration key name.
	Key string
	// Label is the human-readable label for display.
	Label string
	// Description explains what this field is for.
	Description string
	// Default is the default value for this field.
	Default string
	// Required indicates whether this field must be provided.
	Required bool
	// Secret indicates whether this field should be masked in output.
	Secret bool
}
