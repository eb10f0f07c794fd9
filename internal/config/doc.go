// Package config defines the application configuration structure and loads
// it from environment variables and optional YAML config files using viper.
// All settings are validated at startup so misconfiguration fails fast
// instead of surfacing as runtime errors.
package config
