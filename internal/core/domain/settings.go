package domain

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Mode is the default search mode when the caller does not pick one.
	Mode SearchMode `toml:"mode"`

	// MaxResults is the default global result cap.
	MaxResults int `toml:"max_results"`
}

// AppSettings holds all application settings persisted to the config
// file. Per-source credentials live in the source store, not here.
type AppSettings struct {
	// Search holds search behaviour settings.
	Search SearchSettings `toml:"search"`

	// WebPolicy is the company policy filter applied to web results.
	WebPolicy WebPolicy `toml:"web_policy"`
}

// DefaultAppSettings returns settings with sensible defaults.
// The web policy starts permissive at standard compliance; operators
// tighten it via `omni settings`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			Mode:       SearchModeUnified,
			MaxResults: DefaultResultLimit,
		},
		WebPolicy: WebPolicy{
			HTTPSOnly:  true,
			Compliance: ComplianceStandard,
		},
	}
}

// Normalise fills unset fields with defaults so loaded settings are
// always usable.
func (s AppSettings) Normalise() AppSettings {
	if !s.Search.Mode.IsValid() {
		s.Search.Mode = SearchModeUnified
	}
	if s.Search.MaxResults <= 0 {
		s.Search.MaxResults = DefaultResultLimit
	}
	if !s.WebPolicy.Compliance.IsValid() {
		s.WebPolicy.Compliance = ComplianceStandard
	}
	return s
}
