package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/jot/internal/todoapi"
)

// Snapshot is a copy of the store's state at a point in time.
type Snapshot struct {
	State
	LastUpdated time.Time
}

// Store drives State transitions against a todoapi.Service. The lock is
// never held across network calls; state changes only when a step completes.
type Store struct {
	mu          sync.RWMutex
	state       State
	lastUpdated time.Time

	service todoapi.Service
	logger  *zap.Logger
}

// NewStore returns a Store in the Idle phase.
func NewStore(service todoapi.Service, maxLen int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:   New(maxLen),
		service: service,
		logger:  logger,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{State: s.state, LastUpdated: s.lastUpdated}
	snap.List.Todos = cloneTodos(s.state.List.Todos)
	return snap
}

// Edit applies a keystroke to the form input.
func (s *Store) Edit(value string) bool {
	var ok bool
	s.update(func(st State) State {
		st, ok = st.Edit(value)
		return st
	})
	return ok
}

// Refresh fetches the list and replaces it on success. The returned error
// is also recorded in the list state.
func (s *Store) Refresh(ctx context.Context) error {
	s.update(State.BeginFetch)

	todos, err := s.service.FetchAllTodos(ctx)
	if err != nil {
		s.logger.Error("error fetching todos", zap.Error(err))
		s.update(func(st State) State { return st.FetchFailed(err) })
		return err
	}
	s.update(func(st State) State { return st.FetchSucceeded(todos) })
	return nil
}

// Submit validates the form input, creates the todo and refreshes the list.
// The sequence is strictly ordered: validate, create, refetch, then clear
// the input. Validation failures and ErrSubmitInProgress make no request.
func (s *Store) Submit(ctx context.Context) (todoapi.Todo, error) {
	var (
		description string
		err         error
	)
	s.update(func(st State) State {
		st, description, err = st.BeginSubmit()
		return st
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.logger.Debug("todo rejected", zap.String("reason", verr.Message))
		}
		return todoapi.Todo{}, err
	}

	created, err := s.service.CreateTodo(ctx, description)
	if err != nil {
		s.logger.Error("error creating todo", zap.Error(err))
		s.update(func(st State) State { return st.CreateErrored(err) })
		s.update(State.AcknowledgeCreateError)
		return todoapi.Todo{}, err
	}

	s.update(State.CreateSucceeded)
	todos, ferr := s.service.FetchAllTodos(ctx)
	if ferr != nil {
		s.logger.Error("error fetching todos", zap.Error(ferr))
		s.update(func(st State) State { return st.FetchFailed(ferr) })
	} else {
		s.update(func(st State) State { return st.FetchSucceeded(todos) })
	}
	s.update(State.SubmitFinished)
	return created, nil
}

func (s *Store) update(fn func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.Phase
	s.state = fn(s.state)
	s.lastUpdated = time.Now()
	if s.state.Phase != prev {
		s.logger.Debug("phase transition",
			zap.Stringer("from", prev),
			zap.Stringer("to", s.state.Phase),
		)
	}
}
