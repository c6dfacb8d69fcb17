package todoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the naive UTC timestamp format used for created_at.
const TimeLayout = "2006-01-02T15:04:05.999999"

// ID is an opaque todo identifier. Backends send it either as a JSON string
// or as a JSON number; both decode to their textual form.
type ID string

// UnmarshalJSON accepts string, number and null identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode todo id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode todo id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Todo mirrors a single item returned by the todos endpoint.
type Todo struct {
	ID          ID     `json:"id"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// ParsedCreatedAt returns the CreatedAt timestamp, or the zero time when it
// is missing or unparseable.
func (t Todo) ParsedCreatedAt() time.Time {
	return parseTime(t.CreatedAt)
}

// ListResponse mirrors GET /todos/.
type ListResponse struct {
	Todos []Todo `json:"todos"`
}

// CreateRequest is the body of POST /todos/.
type CreateRequest struct {
	Description string `json:"description"`
}

// CreateResponse mirrors a successful POST /todos/.
type CreateResponse struct {
	Todo    Todo   `json:"todo"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the error body shape used by the backend.
type ErrorResponse struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(TimeLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
