// Package devserver is a small in-memory todo backend for local
// development and integration tests.
//
// It serves the same wire format the client expects:
//
//	GET  /todos/   -> 200 {"todos": [...]}, newest first
//	POST /todos/   -> 201 {"todo": {...}, "message": "Todo created successfully"}
//	                  400 {"error": "Invalid input", "detail": "..."}
//	GET  /health   -> 200 {"status": "healthy", ...}
//	GET  /metrics  -> Prometheus exposition
//
// Descriptions are trimmed and limited to MaxDescriptionLength runes.
// Timestamps are naive UTC in todoapi.TimeLayout.
package devserver
