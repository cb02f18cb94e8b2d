// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Missing values fall back to the defaults of DefaultConfig.
package config
