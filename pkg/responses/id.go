package responses

import "regexp"

// Response IDs are "resp_" followed by an opaque alphanumeric suffix. The
// suffix length is a server detail, so only the shape is checked here.
var responseIDPattern = regexp.MustCompile(`^resp_[a-zA-Z0-9]+$`)

// ValidResponseID reports whether id has the shape of a response ID.
func ValidResponseID(id string) bool {
	return responseIDPattern.MatchString(id)
}

func checkResponseID(id string) error {
	if !ValidResponseID(id) {
		return NewInvalidRequestError("response_id", "malformed response ID: "+id)
	}
	return nil
}
