// Package clients holds the shared error taxonomy for rate source clients.
package clients

import "fmt"

// ErrorKind classifies a failed rate source request.
type ErrorKind string

const (
	// KindRateLimited maps HTTP 429.
	KindRateLimited ErrorKind = "rate_limited"
	// KindUnauthorized maps HTTP 401/403 and missing credentials.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindNetwork covers transport failures, including timeouts.
	KindNetwork ErrorKind = "network"
	// KindInvalidResponse covers unparsable or malformed payloads.
	KindInvalidResponse ErrorKind = "invalid_response"
	// KindUpstream covers any other HTTP error status.
	KindUpstream ErrorKind = "upstream"
)

// RequestError is the typed failure of one rate source invocation. The
// updater records it and moves on to the next source.
type RequestError struct {
	Source  string
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Kind == KindUpstream && e.Status > 0:
		return fmt.Sprintf("%s: HTTP %d", e.Source, e.Status)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	default:
		return fmt.Sprintf("%s: %s error", e.Source, e.Kind)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// ClassifyStatus builds the RequestError for a non-2xx HTTP status.
func ClassifyStatus(source string, status int) *RequestError {
	switch {
	case status == 429:
		return &RequestError{Source: source, Kind: KindRateLimited, Status: status,
			Message: "429 Too Many Requests"}
	case status == 401 || status == 403:
		return &RequestError{Source: source, Kind: KindUnauthorized, Status: status,
			Message: fmt.Sprintf("%d unauthorized (check the API key)", status)}
	default:
		return &RequestError{Source: source, Kind: KindUpstream, Status: status}
	}
}

// NetworkError wraps a transport failure, flagging timeouts explicitly.
func NetworkError(source string, err error, timedOut bool) *RequestError {
	msg := "network error"
	if timedOut {
		msg = "timeout"
	}
	return &RequestError{Source: source, Kind: KindNetwork, Message: msg, Err: err}
}

// InvalidResponse wraps a malformed payload.
func InvalidResponse(source, message string, err error) *RequestError {
	return &RequestError{Source: source, Kind: KindInvalidResponse, Message: message, Err: err}
}
