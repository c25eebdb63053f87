// Package services implements the core application services: the
// search dispatcher/aggregator, source configuration management, and
// settings. Services depend only on the port interfaces; all backend
// and storage specifics live behind them.
package services
