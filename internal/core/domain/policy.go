package domain

import (
	"net/url"
	"strings"
)

// ComplianceLevel controls how aggressively web results are filtered.
type ComplianceLevel string

const (
	// ComplianceStandard applies the domain and keyword lists only.
	ComplianceStandard ComplianceLevel = "standard"

	// ComplianceStrict additionally rejects results containing
	// sensitive terms (credential and PII markers).
	ComplianceStrict ComplianceLevel = "strict"
)

// IsValid returns true if the compliance level is recognised.
func (c ComplianceLevel) IsValid() bool {
	return c == ComplianceStandard || c == ComplianceStrict
}

// sensitiveTerms are rejected at ComplianceStrict. The list targets
// credential leaks and PII markers, matched case-insensitively against
// title and content.
var sensitiveTerms = []string{
	"password",
	"passwd",
	"api key",
	"api_key",
	"access token",
	"private key",
	"client secret",
	"ssn",
	"social security",
	"credit card",
	"date of birth",
}

// WebPolicy filters raw web search results before they enter the merge.
// Every stage is a hard filter: a rejecting stage removes the result
// entirely rather than scoring it down. The zero value allows
// everything at standard compliance.
type WebPolicy struct {
	// AllowedDomains, when non-empty, requires the result host to match
	// one of these suffixes.
	AllowedDomains []string `toml:"allowed_domains"`

	// BlockedDomains rejects any host containing one of these terms.
	BlockedDomains []string `toml:"blocked_domains"`

	// BlockedKeywords rejects results whose title or content contains
	// one of these terms.
	BlockedKeywords []string `toml:"blocked_keywords"`

	// HTTPSOnly rejects results with non-TLS URLs.
	HTTPSOnly bool `toml:"https_only"`

	// Compliance selects the content filter level.
	Compliance ComplianceLevel `toml:"compliance"`
}

// Allows reports whether the result passes every policy stage.
func (p WebPolicy) Allows(r SearchResult) bool {
	u, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())

	if len(p.AllowedDomains) > 0 && !hostAllowed(host, p.AllowedDomains) {
		return false
	}

	for _, blocked := range p.BlockedDomains {
		if blocked == "" {
			continue
		}
		if strings.Contains(host, strings.ToLower(blocked)) {
			return false
		}
	}

	text := strings.ToLower(r.Title + " " + r.Content)
	for _, kw := range p.BlockedKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}

	if p.HTTPSOnly && u.Scheme != "https" {
		return false
	}

	if p.Compliance == ComplianceStrict {
		for _, term := range sensitiveTerms {
			if strings.Contains(text, term) {
				return false
			}
		}
	}

	return true
}

// Filter returns the subset of results the policy allows, preserving
// input order.
func (p WebPolicy) Filter(results []SearchResult) []SearchResult {
	filtered := make([]SearchResult, 0, len(results))
	for i := range results {
		if p.Allows(results[i]) {
			filtered = append(filtered, results[i])
		}
	}
	return filtered
}

// hostAllowed checks the host against a list of allowed suffixes.
// "docs.example.com" matches the suffix "example.com" but not
// "ample.com".
func hostAllowed(host string, allowed []string) bool {
	for _, suffix := range allowed {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
