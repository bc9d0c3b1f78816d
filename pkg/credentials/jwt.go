package credentials

import (
	"context"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// SignerConfig holds the JWT signer configuration.
type SignerConfig struct {
	// Secret is the HMAC signing key. Required.
	Secret []byte

	// Subject is placed in the sub claim. Required.
	Subject string

	// Issuer is placed in the iss claim. If empty, iss is omitted.
	Issuer string

	// Audience is placed in the aud claim. If empty, aud is omitted.
	Audience string

	// TTL controls token lifetime. Default: 5 minutes.
	TTL time.Duration

	// Clock allows injecting a time source for testing. If nil, time.Now.
	Clock func() time.Time
}

func (c *SignerConfig) applyDefaults() {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// Signer mints short-lived HS256 tokens for gateways that validate JWTs
// rather than static keys. Tokens are reused until shortly before expiry.
type Signer struct {
	config SignerConfig

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewSigner creates a JWT signer with the given configuration.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("jwt signer: secret is required")
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("jwt signer: subject is required")
	}
	cfg.applyDefaults()
	return &Signer{config: cfg}, nil
}

// Token returns a valid signed token, minting a fresh one when the cached
// token is within 30 seconds of expiry.
func (s *Signer) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.config.Clock()
	if s.token != "" && now.Before(s.expires.Add(-30*time.Second)) {
		return s.token, nil
	}

	expires := now.Add(s.config.TTL)
	claims := jwtlib.MapClaims{
		"sub": s.config.Subject,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	if s.config.Audience != "" {
		claims["aud"] = s.config.Audience
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	s.token = token
	s.expires = expires
	return token, nil
}
