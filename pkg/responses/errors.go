package responses

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an error reported by the API.
type ErrorType string

const (
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

// APIError is a failure explicitly reported by the remote service: a non-2xx
// status code, usually with a decoded error envelope. It is surfaced as-is
// and never retried by the client.
type APIError struct {
	Type    ErrorType `json:"type,omitempty"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`

	// HTTPStatus is the status code of the response that carried the error.
	// Zero when the error did not arrive over HTTP (e.g. inside a stream
	// "error" event or a failed response object).
	HTTPStatus int `json:"-"`

	// Raw is the unparsed response body, kept for diagnostics.
	Raw []byte `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("responses: api error: %s (param: %s)", e.Message, e.Param)
	}
	if e.HTTPStatus != 0 && e.Message == "" {
		return fmt.Sprintf("responses: api error: HTTP %d", e.HTTPStatus)
	}
	return fmt.Sprintf("responses: api error: %s", e.Message)
}

// errorEnvelope is the wire shape of a top-level error response.
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// InvalidRequestError reports a caller-constructed Request that violates a
// data-model invariant. It is detected before any network I/O.
type InvalidRequestError struct {
	Param   string
	Message string
}

func (e *InvalidRequestError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("responses: invalid request: %s (param: %s)", e.Message, e.Param)
	}
	return fmt.Sprintf("responses: invalid request: %s", e.Message)
}

// NewInvalidRequestError creates an InvalidRequestError for the given
// parameter and message.
func NewInvalidRequestError(param, message string) *InvalidRequestError {
	return &InvalidRequestError{Param: param, Message: message}
}

// ProtocolMismatchError reports a success payload or stream frame that could
// not be decoded into any known shape, or a frame whose declared event type
// disagreed with its payload's type tag. It indicates protocol-version skew
// between client and server.
type ProtocolMismatchError struct {
	Reason string
	Cause  error

	// Raw is the payload that failed to decode.
	Raw []byte
}

func (e *ProtocolMismatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("responses: protocol mismatch: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("responses: protocol mismatch: %s", e.Reason)
}

func (e *ProtocolMismatchError) Unwrap() error { return e.Cause }

// TransportError wraps a failure from the HTTP transport (connection reset,
// timeout, TLS failure). It is distinct from protocol-level failures: the
// bytes never arrived, as opposed to arriving in an unreadable shape.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("responses: transport error during %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// AsAPIError reports whether err is (or wraps) an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsProtocolMismatch reports whether err is (or wraps) a *ProtocolMismatchError.
func AsProtocolMismatch(err error) (*ProtocolMismatchError, bool) {
	var e *ProtocolMismatchError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsInvalidRequest reports whether err is (or wraps) an *InvalidRequestError.
func AsInvalidRequest(err error) (*InvalidRequestError, bool) {
	var e *InvalidRequestError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsTransportError reports whether err is (or wraps) a *TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var e *TransportError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
