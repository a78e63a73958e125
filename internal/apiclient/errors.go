package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a normalized API failure
type ErrorKind string

const (
	// KindNetwork is a transport failure or timeout before any response
	KindNetwork ErrorKind = "network"
	// KindAuth is a 401; the client also fires its OnUnauthorized hook
	KindAuth ErrorKind = "auth"
	// KindValidation is a 4xx carrying server-supplied field errors
	KindValidation ErrorKind = "validation"
	// KindNotFound is a 404 on a detail fetch
	KindNotFound ErrorKind = "not_found"
	// KindUnknown is the catch-all for everything else
	KindUnknown ErrorKind = "unknown"
)

// APIError is the single error type every remote failure is normalized into.
// Message is always a human-readable display string; Fields is populated only
// for validation failures that carried per-field messages.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
}

// AsAPIError unwraps err into an *APIError when possible
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody is the wire shape servers use to report failures.
// Message priority when normalizing: Error > Message > transport text.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// kindForStatus maps an HTTP status to an error kind
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindUnknown
	}
}

// transportError normalizes a failure that happened before any HTTP
// response. Timeouts, refused connections and canceled contexts all land
// here; they carry no status and surface the raw transport message.
func transportError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: err.Error()}
}

// statusError normalizes a non-2xx response into an APIError
func statusError(status int, body errorBody, fallback string) *APIError {
	message := body.Error
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = fallback
	}

	apiErr := &APIError{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: message,
	}
	if len(body.Errors) > 0 {
		apiErr.Fields = body.Errors
		if apiErr.Kind == KindUnknown {
			apiErr.Kind = KindValidation
		}
	}
	return apiErr
}
