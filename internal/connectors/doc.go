// Package connectors registers the backend adapters and exposes the
// factory that turns source configurations into live adapters.
//
// Each backend lives in its own subpackage (jira, confluence, github,
// bitbucket, slack, websearch, ai/anthropic, ai/openai) and implements
// driven.SourceAdapter. The catalogue in this package is the single
// authority on which connector types exist, which family they belong
// to, and which configuration keys they read.
package connectors
