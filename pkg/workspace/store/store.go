package store

import (
	"sync"

	"doceasy-be/pkg/workspace"
)

// Store owns the workspace state for one user session. All mutation goes
// through Dispatch, actions are applied in dispatch order, and the state
// value handed out is never mutated in place by the reducer.
//
// The epoch counter guards against stale async results: it is bumped on
// every project switch and full reset, and DispatchAt drops any action
// tagged with an older epoch. Network completions racing a navigation can
// therefore never corrupt the state of the project the user moved to.
type Store struct {
	mu       sync.RWMutex
	state    workspace.State
	epoch    uint64
	onChange []func(workspace.State)
}

func New() *Store {
	return &Store{state: workspace.NewState()}
}

// NewWithState restores a store from a persisted snapshot.
func NewWithState(state workspace.State) *Store {
	return &Store{state: state}
}

// State returns the current state value. Callers must treat the contained
// maps and slices as read-only.
func (s *Store) State() workspace.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Epoch returns the token async operations should capture before starting
// work and pass back through DispatchAt.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Subscribe registers a callback invoked after every applied action, with
// the resulting state. Callbacks run synchronously under dispatch order.
func (s *Store) Subscribe(fn func(workspace.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Dispatch applies an action and returns the resulting state.
func (s *Store) Dispatch(a workspace.Action) workspace.State {
	s.mu.Lock()
	state, subs := s.apply(a)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

// DispatchAt applies an action only if the given epoch still matches the
// store's. It reports whether the action was applied; a false return means
// the result belonged to a project context that is no longer current.
func (s *Store) DispatchAt(epoch uint64, a workspace.Action) (workspace.State, bool) {
	s.mu.Lock()
	if epoch != s.epoch {
		state := s.state
		s.mu.Unlock()
		return state, false
	}
	state, subs := s.apply(a)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state, true
}

// apply runs the reducer and bumps the epoch on context-changing actions.
// Caller holds the write lock.
func (s *Store) apply(a workspace.Action) (workspace.State, []func(workspace.State)) {
	switch act := a.(type) {
	case workspace.SetInitialState:
		s.epoch++
	case workspace.SetCurrentProject:
		if s.state.CurrentProjectID() != act.Project.ID {
			s.epoch++
		}
	}

	s.state = workspace.Reduce(s.state, a)
	return s.state, s.onChange
}
