// ABOUTME: Error types for meal analysis requests and responses.
// ABOUTME: Parse and shape errors keep the raw model output for diagnosis.
package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned before any network call when no key is configured.
	ErrMissingAPIKey = errors.New("no API key configured: run 'fitlog settings set-key' or set OPENAI_API_KEY")
	// ErrNoInput is returned when neither an image nor a description is given.
	ErrNoInput = errors.New("an image or a description is required")
	// ErrNoFeedback is returned when a feedback request has no feedback text.
	ErrNoFeedback = errors.New("feedback text is required")
)

// ParseError means no JSON object could be read from the model's reply.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse analysis response: %v", e.Err)
	}
	return "could not find a JSON object in the analysis response"
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError means the reply held JSON of the wrong shape.
type ShapeError struct {
	Raw    string
	Reason string
}

func (e *ShapeError) Error() string {
	return "unexpected analysis shape: " + e.Reason
}

// APIError is a non-2xx reply from the completion endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// RawResponse returns the model output carried by a ParseError or ShapeError
// anywhere in err's chain.
func RawResponse(err error) (string, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Raw, true
	}
	var se *ShapeError
	if errors.As(err, &se) {
		return se.Raw, true
	}
	return "", false
}
