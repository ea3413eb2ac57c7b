// Package config loads the studio-session TOML configuration, fills defaults
// and validates the store and webhook sections.
package config
