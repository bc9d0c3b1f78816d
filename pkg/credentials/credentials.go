// Package credentials supplies bearer tokens for API requests.
//
// The common case is a static API key, but a Provider can also mint
// short-lived tokens per request, e.g. for gateways that authenticate
// clients with signed JWTs instead of long-lived keys.
package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvAPIKey is the environment variable consulted by FromEnv and by
// clients constructed without explicit credentials.
const EnvAPIKey = "OPENAI_API_KEY"

// Provider supplies the bearer token placed in the Authorization header.
// Token is called once per request, so implementations may rotate or
// refresh tokens between calls.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed API key.
type Static string

// Token returns the key itself.
func (s Static) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty API key")
	}
	return string(s), nil
}

// envProvider reads the key from the environment on every call, so a
// rotated key is picked up without rebuilding the client.
type envProvider struct {
	name string
}

// FromEnv returns a Provider reading the API key from the named
// environment variable. With no argument it reads EnvAPIKey.
func FromEnv(name ...string) Provider {
	n := EnvAPIKey
	if len(name) > 0 && name[0] != "" {
		n = name[0]
	}
	return envProvider{name: n}
}

func (e envProvider) Token(ctx context.Context) (string, error) {
	key := strings.TrimSpace(os.Getenv(e.name))
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", e.name)
	}
	return key, nil
}
