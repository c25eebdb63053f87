// Package driven defines the interfaces the core services depend on:
// backend source adapters, persistence stores, and the relevance
// scoring strategy. Implementations live under internal/connectors and
// internal/adapters/driven.
package driven
