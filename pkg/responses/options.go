package responses

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rhuss/responses-go/pkg/credentials"
	"github.com/rhuss/responses-go/pkg/observability"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Option configures a Client.
type Option func(*Client) error

// WithAPIKey authenticates with a fixed API key.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		if err := validateHeaderValue("api_key", key); err != nil {
			return err
		}
		c.creds = credentials.Static(key)
		return nil
	}
}

// WithCredentials authenticates with a custom token source, e.g. a JWT
// signer for gateways that do not accept static keys.
func WithCredentials(p credentials.Provider) Option {
	return func(c *Client) error {
		if p == nil {
			return NewInvalidRequestError("credentials", "provider must not be nil")
		}
		c.creds = p
		return nil
	}
}

// WithBaseURL points the client at a different endpoint, e.g. a proxy or a
// compatible self-hosted gateway. A trailing slash is stripped.
func WithBaseURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return NewInvalidRequestError("base_url", "must not be empty")
		}
		c.baseURL = strings.TrimRight(url, "/")
		return nil
	}
}

// WithHTTPClient injects a custom HTTP client. Its Timeout applies to
// unary calls only; streaming calls rely on context cancellation.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return NewInvalidRequestError("http_client", "must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithOrganization sets the OpenAI-Organization header on every request.
func WithOrganization(org string) Option {
	return func(c *Client) error {
		if err := validateHeaderValue("organization", org); err != nil {
			return err
		}
		c.organization = org
		return nil
	}
}

// WithProject sets the OpenAI-Project header on every request.
func WithProject(project string) Option {
	return func(c *Client) error {
		if err := validateHeaderValue("project", project); err != nil {
			return err
		}
		c.project = project
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if err := validateHeaderValue("user_agent", ua); err != nil {
			return err
		}
		c.userAgent = ua
		return nil
	}
}

// WithMetrics records request counts, latencies, token usage, and stream
// activity into the given instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// WithValidation controls client-side request validation before encoding.
// It is on by default; turning it off sends requests as-is and leaves
// rejection to the server.
func WithValidation(enabled bool) Option {
	return func(c *Client) error {
		c.validate = enabled
		return nil
	}
}

// validateHeaderValue rejects values that cannot be carried in an HTTP
// header: empty strings and non-printable or non-ASCII bytes.
func validateHeaderValue(param, value string) error {
	if value == "" {
		return NewInvalidRequestError(param, "must not be empty")
	}
	for i := 0; i < len(value); i++ {
		b := value[i]
		if b < 0x20 || b > 0x7e {
			return NewInvalidRequestError(param, fmt.Sprintf("invalid header byte 0x%02x at position %d", b, i))
		}
	}
	return nil
}
