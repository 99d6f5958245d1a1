package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingGameID is the message reported when a route needing a game id
// was reached without one.
const ErrMissingGameID = "Game ID is missing in the request"

// ErrorPayload is the uniform body returned for any recoverable failure.
type ErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MissingParameterError reports a required path parameter that was absent.
// No upstream call is made when this is returned.
type MissingParameterError struct {
	Resource Resource
	Param    string
}

func (e *MissingParameterError) Error() string {
	if e.Param == "id" {
		return ErrMissingGameID
	}
	return fmt.Sprintf("%s is missing in the request", e.Param)
}

// UpstreamError wraps a failed upstream call: a transport error, a non-2xx
// status, or a body that is empty or not JSON.
type UpstreamError struct {
	Resource Resource

	// StatusCode is the upstream status, zero when no response was received.
	StatusCode int

	Err error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s (status %d): %v", e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Resource, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports process configuration that prevents serving
// traffic at all. It is raised at startup, never per request.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// NewMissingIDError is returned by handlers that need a game id.
func NewMissingIDError(r Resource) *MissingParameterError {
	return &MissingParameterError{Resource: r, Param: "id"}
}

// PayloadFor converts an error caught at the handler boundary into the
// payload sent to the client. It accepts any error, including nil.
func PayloadFor(r Resource, err error) ErrorPayload {
	var missing *MissingParameterError
	if errors.As(err, &missing) {
		return ErrorPayload{Error: missing.Error()}
	}

	payload := ErrorPayload{Error: r.FailureMessage()}

	var upstream *UpstreamError
	switch {
	case errors.As(err, &upstream) && upstream.Err != nil:
		payload.Details = upstream.Err.Error()
	case err != nil:
		payload.Details = err.Error()
	}
	return payload
}

// StatusFor returns the HTTP status a mapped error policy uses for err.
func StatusFor(err error) int {
	var missing *MissingParameterError
	if errors.As(err, &missing) {
		return http.StatusBadRequest
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
