// Package todoapi provides the HTTP client for the todo backend.
//
// # Overview
//
// The backend exposes a single collection endpoint:
//
//   - GET  {base}/todos/  returns {"todos": [{id, description, created_at}, ...]}
//   - POST {base}/todos/  accepts {"description": "..."} and returns {"todo": {...}}
//     (or the created todo object directly)
//
// Client implements the Service interface used by the state package.
//
// # Request Handling
//
// Every request:
//   - Races the network call against a timer (DefaultRequestTimeout, 10s)
//   - Sets Accept and Content-Type to application/json
//   - Sets User-Agent: jot/0.1 and a fresh X-Request-ID (uuid)
//   - Is attempted exactly once; there are no retries
//
// The race produces one of four outcomes, decided where the race happens:
// a response, a timeout, a transport failure, or caller cancellation. The
// losing side is abandoned; no error text is inspected to tell them apart.
//
// # Error Handling
//
// Every failure is normalized into *APIError before it leaves the package:
//
//   - Timer wins:                  "Request timed out...", status 408, KindTimeout
//   - No response obtained:        "Network error...", status 0, KindNetwork
//   - Response not JSON:           "Invalid response format", response status, KindServer
//   - Non-2xx JSON response:       body.error, body.detail or "HTTP error! status: N", KindServer
//   - Anything else (bad JSON,
//     caller cancellation):        original message, status 500, KindUnexpected
//
// Callers can use AsAPIError to read the status and payload.
//
// # URL Construction
//
// NewClient accepts "localhost:8000", "http://host:8000" or a URL with a
// path prefix such as "https://host/api". The scheme defaults to http, the
// query and fragment are dropped, and the todos path is appended to any
// prefix. An empty value selects DefaultBaseURL.
package todoapi
