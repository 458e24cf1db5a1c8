// Package config handles loading and validating the engine's
// configuration from environment variables and optional config files.
package config
