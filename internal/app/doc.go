// Package app is the composition root for jot.
//
// # Overview
//
// Every entry point follows the same setup:
//
//  1. Load ~/.config/jot/config.toml (or --config), applying JOT_API_URL
//  2. Apply the --api-url override
//  3. Open the JSON log file via logging.New
//  4. Build a todoapi.Client with the configured timeout and logger
//
// The entry points then diverge:
//
//   - Run: loads preferences and starts the Bubble Tea UI (blocks)
//   - List: one refresh through a state.Store, printed to Out
//   - Add: Edit and Submit through a state.Store, so the create, refetch
//     and clear sequence and its validation match the UI exactly
//   - Watch: List in a loop with exponential backoff on failure
//   - Logs: prints the tail of the log file, formatted unless raw
//
// # Watch Behavior
//
// Watch refreshes at the requested interval. Each consecutive failure
// doubles the wait, capped at 30 seconds, and a success resets it. Errors
// are rendered and logged; the loop only ends when the context does.
//
// # Error Handling
//
// Configuration, logging and client setup failures are returned wrapped
// ("load config: ..."). Request failures are returned as the
// *todoapi.APIError produced by the client, so the CLI prints the same
// message the UI would show. Preference errors are logged and defaults
// are used.
package app
