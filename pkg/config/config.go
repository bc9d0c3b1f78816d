// Package config provides unified configuration for client tooling.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (RESPONSES_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for programs using the client.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// APIConfig holds endpoint and request settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`      // default: https://api.openai.com/v1
	Organization string        `yaml:"organization"`  // optional
	Project      string        `yaml:"project"`       // optional
	DefaultModel string        `yaml:"default_model"` // optional
	Timeout      time.Duration `yaml:"timeout"`       // default: 120s
}

// AuthConfig holds credential settings.
type AuthConfig struct {
	Type       string    `yaml:"type"`         // "apikey" or "jwt", default: "apikey"
	APIKey     string    `yaml:"api_key"`      // optional; falls back to OPENAI_API_KEY
	APIKeyFile string    `yaml:"api_key_file"` // _file variant for api_key
	JWT        JWTConfig `yaml:"jwt"`          // used when type=jwt
}

// JWTConfig holds JWT signer settings for gateways that authenticate
// clients with signed tokens.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	Subject    string        `yaml:"subject"`
	Issuer     string        `yaml:"issuer"`
	Audience   string        `yaml:"audience"`
	TTL        time.Duration `yaml:"ttl"` // default: 5m
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig controls Prometheus instrument registration.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: false
}

// DebugConfig holds category-based debug logging settings.
type DebugConfig struct {
	Categories string `yaml:"categories"` // e.g. "http,stream"
	Level      string `yaml:"level"`      // ERROR, WARN, INFO, DEBUG, TRACE
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.openai.com/v1",
			Timeout: 120 * time.Second,
		},
		Auth: AuthConfig{
			Type: "apikey",
			JWT: JWTConfig{
				TTL: 5 * time.Minute,
			},
		},
	}
}
