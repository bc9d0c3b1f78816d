package responses

import (
	"encoding/json"
	"net/http"
)

// EncodeRequest validates req and serializes it to the wire request shape.
// Invariant violations surface as *InvalidRequestError before any bytes are
// produced.
func EncodeRequest(req *Request) ([]byte, error) {
	if req == nil {
		return nil, NewInvalidRequestError("", "request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		// Marshal failures past validation are still caller-side problems
		// (e.g. a Tool with a malformed Raw payload).
		return nil, NewInvalidRequestError("", err.Error())
	}
	return data, nil
}

// DecodeResponse interprets one wire exchange: the HTTP status code plus the
// response body.
//
// A 2xx body decodes into a Response; a 2xx body that cannot be decoded is a
// *ProtocolMismatchError, which is distinct from the server reporting
// failure. A non-2xx body decodes its error envelope into an *APIError;
// when no envelope is present the *APIError is synthesized from the status
// code alone.
func DecodeResponse(statusCode int, body []byte) (*Response, error) {
	if statusCode >= 200 && statusCode < 300 {
		var resp Response
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &ProtocolMismatchError{
				Reason: "undecodable success payload",
				Cause:  err,
				Raw:    append([]byte(nil), body...),
			}
		}
		return &resp, nil
	}

	return nil, decodeAPIError(statusCode, body)
}

// decodeAPIError extracts the error envelope from a non-2xx body, falling
// back to the status code when the body has no usable envelope.
func decodeAPIError(statusCode int, body []byte) *APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		apiErr := *env.Error
		apiErr.HTTPStatus = statusCode
		apiErr.Raw = append([]byte(nil), body...)
		return &apiErr
	}

	return &APIError{
		Type:       errorTypeForStatus(statusCode),
		Message:    http.StatusText(statusCode),
		HTTPStatus: statusCode,
		Raw:        append([]byte(nil), body...),
	}
}

func errorTypeForStatus(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusBadRequest:
		return ErrorTypeInvalidRequest
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeTooManyRequests
	default:
		return ErrorTypeServerError
	}
}
