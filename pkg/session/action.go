package session

import "sync"

// ActionState holds the label of the most recently started command.
// Single writer (the dispatcher), multiple readers (sampler, diagnostics).
// No history is kept; only "what's happening now" is visible.
type ActionState struct {
	mu    sync.RWMutex
	label string
}

// NewActionState creates an action state with an initial label.
func NewActionState(initial string) *ActionState {
	return &ActionState{label: initial}
}

// Set overwrites the current label.
func (s *ActionState) Set(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Get returns the current label.
func (s *ActionState) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.label
}
