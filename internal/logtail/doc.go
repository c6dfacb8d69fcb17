// Package logtail reads the tail of jot's log file for `jot logs`.
//
// # Reading
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) however large the file grows. Lines come back oldest first.
// A missing file returns nil, nil.
//
// # Formatting
//
// The log file holds one JSON object per line, as written by
// logging.New. Parse decodes a line into an Entry, and FormatLines turns a
// batch into "15:04:05 WARN  message key=value" text, colored by level
// with lipgloss when requested. Lines that are not JSON are printed as-is.
package logtail
