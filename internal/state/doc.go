// Package state holds the todo list and form state of the view and the
// transitions between them.
//
// # Overview
//
// State is a plain value with three parts:
//
//   - List:  the todos, a Loading flag and the list-level Error message
//   - Form:  the Input text, a Submitting flag and the SubmitError message
//   - Phase: Idle, Fetching, FetchError, Creating or CreateError
//
// Every transition is a method on State that returns a new State and does
// no I/O. Callers run the request themselves and feed the result back:
//
//	st = st.BeginFetch()
//	todos, err := client.FetchAllTodos(ctx)
//	if err != nil {
//		st = st.FetchFailed(err)
//	} else {
//		st = st.FetchSucceeded(todos)
//	}
//
// The Bubble Tea UI applies these transitions from its Update loop. Store
// applies the same transitions synchronously for the CLI.
//
// # Submit Sequence
//
//	BeginSubmit      validate; Idle -> Creating (or SubmitError, no request)
//	CreateTodo       one request
//	CreateSucceeded  start the list refresh, still Creating
//	FetchAllTodos    one request
//	FetchSucceeded / FetchFailed
//	SubmitFinished   clear input, leave Creating
//
// A failed create goes through CreateFailed instead: the message lands on
// the form and the list, the input is kept, and the phase returns to Idle.
//
// # Invariants
//
//   - Loading is true only while a fetch is outstanding
//   - Error is cleared at the start of every fetch or submit
//   - Input never exceeds MaxLen characters (Edit rejects longer values)
//   - Submitting is true only while a create-and-refresh is outstanding
//
// # Concurrency
//
// State values are not shared. Store guards its State with a sync.RWMutex,
// never holds the lock across a network call, and hands out copies from
// Snapshot. A second Submit while one is outstanding returns
// ErrSubmitInProgress without touching the network.
package state
