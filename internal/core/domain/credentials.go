package domain

import "encoding/base64"

// AuthMethod defines how a connector authenticates.
type AuthMethod string

const (
	// AuthMethodNone requires no credentials.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodBasic uses HTTP Basic auth with email:token.
	AuthMethodBasic AuthMethod = "basic"
	// AuthMethodBearer uses a Bearer token or API key.
	AuthMethodBearer AuthMethod = "bearer"
)

// Credentials is the credential bag attached to a Source.
// Depending on the backend it holds a bare token (Bearer backends) or a
// username plus token (Basic backends). Credentials are the exclusive
// property of the source store; adapters receive a read-only copy per
// call and never persist it themselves.
type Credentials struct {
	// Username is the account email or login for Basic auth backends.
	// Empty for token-only backends.
	Username string `json:"username,omitempty"`

	// Token is the personal access token, app password, or API key.
	Token string `json:"token,omitempty"`
}

// Method derives the auth method from the populated fields.
func (c Credentials) Method() AuthMethod {
	switch {
	case c.Username != "" && c.Token != "":
		return AuthMethodBasic
	case c.Token != "":
		return AuthMethodBearer
	default:
		return AuthMethodNone
	}
}

// IsConfigured returns true if the credentials contain a token.
func (c Credentials) IsConfigured() bool {
	return c.Token != ""
}

// BasicAuthHeader returns the value for an Authorization header using
// Basic auth, base64 of "username:token".
func (c Credentials) BasicAuthHeader() string {
	raw := c.Username + ":" + c.Token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// BearerAuthHeader returns the value for an Authorization header using
// Bearer auth.
func (c Credentials) BearerAuthHeader() string {
	return "Bearer " + c.Token
}
