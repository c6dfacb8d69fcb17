package state

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/five82/jot/internal/todoapi"
)

// DefaultMaxDescriptionLength caps the description input, in characters.
const DefaultMaxDescriptionLength = 1000

// Messages shown when a failure carries no API message of its own.
const (
	MessageEmptyDescription = "Please enter a todo description"
	MessageFetchFailed      = "Failed to fetch todos. Please try again."
	MessageCreateFailed     = "Failed to create todo. Please try again."
)

// ErrSubmitInProgress is returned by BeginSubmit while a submit is outstanding.
var ErrSubmitInProgress = errors.New("submit already in progress")

// ValidationError is a client-side rejection of the form input. It never
// reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Phase is the control state of the view.
type Phase int

const (
	Idle Phase = iota
	Fetching
	FetchError
	Creating
	// CreateError is transient: a failed create reports it and returns to Idle.
	CreateError
)

func (p Phase) String() string {
	switch p {
	case Fetching:
		return "fetching"
	case FetchError:
		return "fetch_error"
	case Creating:
		return "creating"
	case CreateError:
		return "create_error"
	default:
		return "idle"
	}
}

// ListState is the list region of the view.
type ListState struct {
	Todos   []todoapi.Todo
	Loading bool
	Error   string
}

// FormState is the create form of the view.
type FormState struct {
	Input       string
	Submitting  bool
	SubmitError string
}

// State is the whole view state. Transitions are methods that return a new
// State and never perform I/O.
type State struct {
	List   ListState
	Form   FormState
	Phase  Phase
	MaxLen int
}

// New returns an idle state. A non-positive maxLen selects
// DefaultMaxDescriptionLength.
func New(maxLen int) State {
	if maxLen <= 0 {
		maxLen = DefaultMaxDescriptionLength
	}
	return State{MaxLen: maxLen}
}

func (s State) limit() int {
	if s.MaxLen <= 0 {
		return DefaultMaxDescriptionLength
	}
	return s.MaxLen
}

// BeginFetch marks a list fetch as outstanding and clears the list error.
func (s State) BeginFetch() State {
	s.List.Loading = true
	s.List.Error = ""
	if !s.Form.Submitting {
		s.Phase = Fetching
	}
	return s
}

// FetchSucceeded replaces the list with todos.
func (s State) FetchSucceeded(todos []todoapi.Todo) State {
	s.List.Todos = cloneTodos(todos)
	s.List.Loading = false
	s.List.Error = ""
	if !s.Form.Submitting {
		s.Phase = Idle
	}
	return s
}

// FetchFailed records a failed fetch. The previous list is kept.
func (s State) FetchFailed(err error) State {
	s.List.Loading = false
	s.List.Error = failureMessage(err, MessageFetchFailed)
	if !s.Form.Submitting {
		s.Phase = FetchError
	}
	return s
}

// Edit applies a keystroke. The edit is rejected, leaving the state
// unchanged, when value exceeds the length limit. Accepted edits clear the
// submit error.
func (s State) Edit(value string) (State, bool) {
	if utf8.RuneCountInString(value) > s.limit() {
		return s, false
	}
	s.Form.Input = value
	s.Form.SubmitError = ""
	return s, true
}

// BeginSubmit validates the input. On success it enters Creating and
// returns the trimmed description to send. A *ValidationError leaves the
// phase unchanged with SubmitError set.
func (s State) BeginSubmit() (State, string, error) {
	if s.Form.Submitting {
		return s, "", ErrSubmitInProgress
	}
	trimmed := strings.TrimSpace(s.Form.Input)
	if trimmed == "" {
		s.Form.SubmitError = MessageEmptyDescription
		return s, "", &ValidationError{Message: MessageEmptyDescription}
	}
	if utf8.RuneCountInString(trimmed) > s.limit() {
		msg := fmt.Sprintf("Description cannot exceed %d characters", s.limit())
		s.Form.SubmitError = msg
		return s, "", &ValidationError{Message: msg}
	}
	s.Form.SubmitError = ""
	s.Form.Submitting = true
	s.List.Error = ""
	s.Phase = Creating
	return s, trimmed, nil
}

// CreateSucceeded starts the follow-up list refresh. The phase stays
// Creating until SubmitFinished.
func (s State) CreateSucceeded() State {
	return s.BeginFetch()
}

// SubmitFinished ends a successful submit once its refresh has settled.
func (s State) SubmitFinished() State {
	s.Form.Input = ""
	s.Form.Submitting = false
	switch {
	case s.List.Loading:
		s.Phase = Fetching
	case s.List.Error != "":
		s.Phase = FetchError
	default:
		s.Phase = Idle
	}
	return s
}

// CreateErrored records a failed create and enters CreateError. The input
// is kept so the user can retry; the message is shown on both the form and
// the list.
func (s State) CreateErrored(err error) State {
	msg := failureMessage(err, MessageCreateFailed)
	s.Form.SubmitError = msg
	s.Form.Submitting = false
	s.List.Error = msg
	s.Phase = CreateError
	return s
}

// AcknowledgeCreateError leaves CreateError for Idle. Other phases are
// unchanged.
func (s State) AcknowledgeCreateError() State {
	if s.Phase == CreateError {
		s.Phase = Idle
	}
	return s
}

// CreateFailed is CreateErrored followed by AcknowledgeCreateError.
func (s State) CreateFailed(err error) State {
	return s.CreateErrored(err).AcknowledgeCreateError()
}

// CanSubmit reports whether a submit would be attempted.
func (s State) CanSubmit() bool {
	return !s.Form.Submitting && strings.TrimSpace(s.Form.Input) != ""
}

// Busy reports whether any request is outstanding.
func (s State) Busy() bool {
	return s.List.Loading || s.Form.Submitting
}

func failureMessage(err error, fallback string) string {
	if apiErr, ok := todoapi.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func cloneTodos(items []todoapi.Todo) []todoapi.Todo {
	if len(items) == 0 {
		return nil
	}
	dup := make([]todoapi.Todo, len(items))
	copy(dup, items)
	return dup
}
