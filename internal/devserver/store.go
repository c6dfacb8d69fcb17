package devserver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/five82/jot/internal/todoapi"
)

// MaxDescriptionLength caps descriptions accepted by the server.
const MaxDescriptionLength = 1000

// Validation messages returned in the detail field of a 400 response.
const (
	MessageNotString  = "Description must be a non-empty string"
	MessageBlank      = "Description cannot be empty or whitespace only"
	messageTooLongFmt = "Description cannot exceed %d characters"
)

// ValidationError is a rejected description.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// ValidateDescription checks a decoded description value and returns it
// trimmed. raw is whatever the request carried: only non-empty strings pass.
func ValidateDescription(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", &ValidationError{Detail: MessageNotString}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Detail: MessageBlank}
	}
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		return "", &ValidationError{Detail: fmt.Sprintf(messageTooLongFmt, MaxDescriptionLength)}
	}
	return s, nil
}

// MemoryStore keeps todos in memory, newest first.
type MemoryStore struct {
	mu    sync.RWMutex
	todos []todoapi.Todo
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// List returns all todos, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]todoapi.Todo, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list todos: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]todoapi.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

// Create validates description and stores a new todo with a fresh id.
func (s *MemoryStore) Create(ctx context.Context, description any) (todoapi.Todo, error) {
	select {
	case <-ctx.Done():
		return todoapi.Todo{}, fmt.Errorf("create todo: %w", ctx.Err())
	default:
	}

	clean, err := ValidateDescription(description)
	if err != nil {
		return todoapi.Todo{}, err
	}

	todo := todoapi.Todo{
		ID:          todoapi.ID(uuid.New().String()),
		Description: clean,
		CreatedAt:   s.now().UTC().Format(todoapi.TimeLayout),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append([]todoapi.Todo{todo}, s.todos...)
	return todo, nil
}

// Len returns the number of stored todos.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}
