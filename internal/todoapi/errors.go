package todoapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Messages surfaced to the user for normalized failures.
const (
	MessageTimeout       = "Request timed out. Please check your connection and try again."
	MessageNetwork       = "Network error. Please check your connection."
	MessageInvalidFormat = "Invalid response format"
	MessageUnexpected    = "An unexpected error occurred"
)

// Kind classifies an APIError.
type Kind int

const (
	// KindUnexpected covers anything not classified below (status 500).
	KindUnexpected Kind = iota
	// KindTimeout means the request lost the race against the timer (status 408).
	KindTimeout
	// KindNetwork means no response was obtained (status 0).
	KindNetwork
	// KindServer means a response arrived but was non-2xx or not JSON.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unexpected"
	}
}

// APIError is the single failure shape returned by Client operations.
type APIError struct {
	Message string
	Status  int
	Data    map[string]any
	Kind    Kind
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError reports whether err carries an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func timeoutError() *APIError {
	return &APIError{Message: MessageTimeout, Status: http.StatusRequestTimeout, Kind: KindTimeout}
}

func networkError(cause error) *APIError {
	return &APIError{Message: MessageNetwork, Status: 0, Kind: KindNetwork, Err: cause}
}

func invalidFormatError(status int) *APIError {
	return &APIError{
		Message: MessageInvalidFormat,
		Status:  status,
		Data:    map[string]any{"message": "Server returned non-JSON response"},
		Kind:    KindServer,
	}
}

func serverError(status int, body any) *APIError {
	data, ok := body.(map[string]any)
	if !ok {
		data = map[string]any{"body": body}
	}
	msg := firstString(data, "error", "detail")
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &APIError{Message: msg, Status: status, Data: data, Kind: KindServer}
}

func unexpectedError(cause error) *APIError {
	msg := MessageUnexpected
	original := ""
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
		original = cause.Error()
	}
	return &APIError{
		Message: msg,
		Status:  http.StatusInternalServerError,
		Data:    map[string]any{"originalError": original},
		Kind:    KindUnexpected,
		Err:     cause,
	}
}

func firstString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
