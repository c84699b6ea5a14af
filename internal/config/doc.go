// Package config loads and validates the tracksplit TOML configuration.
package config
