// Package config loads jot's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/jot/config.toml
//  3. If the file doesn't exist, use the defaults
//  4. Empty fields keep their defaults
//  5. JOT_API_URL, when set, replaces api_url
//
// The --api-url flag of cmd/jot is applied after Load and wins over both.
//
// # TOML Format
//
//	api_url = "http://localhost:8000"
//	request_timeout = "10s"
//	max_description_length = 1000
//	log_file = "~/.local/state/jot/jot.log"
//	log_level = "info"
//
// Every field is optional. Tilde expansion is performed for log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, malformed TOML, and out-of-range values. A missing file is
// not an error.
package config
