package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// api.base_url is required.
	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}

	// api.timeout must not be negative.
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout))
	}

	// auth.type must be a known value.
	switch c.Auth.Type {
	case "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"apikey\" or \"jwt\", got %q", c.Auth.Type))
	}

	// If auth.type is "jwt", the signer fields must be set.
	if c.Auth.Type == "jwt" {
		if c.Auth.JWT.Secret == "" && c.Auth.JWT.SecretFile == "" {
			errs = append(errs, fmt.Errorf("auth.jwt.secret or auth.jwt.secret_file is required when auth.type is \"jwt\""))
		}
		if c.Auth.JWT.Subject == "" {
			errs = append(errs, fmt.Errorf("auth.jwt.subject is required when auth.type is \"jwt\""))
		}
	}

	return errors.Join(errs...)
}
