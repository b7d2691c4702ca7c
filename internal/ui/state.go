// Package ui holds the presentation state behind the web studio: one state
// machine per browser session, the session store, and the Studio that runs
// batches in the background and feeds their outcomes back into the machine.
package ui

import (
	"sync"

	"github.com/fleveque/namesmith/internal/model"
	"github.com/fleveque/namesmith/internal/service"
)

// Phase is the screen the studio is showing.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Ticket identifies one submitted batch within a session. Only the latest
// ticket's outcome is applied; older ones were superseded by a resubmit.
type Ticket uint64

// Snapshot is an immutable copy of the state, safe to hand to a template.
type Snapshot struct {
	Phase   Phase
	Input   model.UserInput
	Results []model.GeneratedResult
	Error   string
}

// Loading reports whether a batch is in flight.
func (s Snapshot) Loading() bool { return s.Phase == PhaseLoading }

// State is the idle/loading/success/error machine for one session.
// All methods are safe for concurrent use: the batch goroutine resolves the
// state while request handlers read it.
type State struct {
	mu      sync.Mutex
	phase   Phase
	input   model.UserInput
	results []model.GeneratedResult
	errMsg  string
	current Ticket
}

// NewState returns a machine in the idle phase.
func NewState() *State {
	return &State{phase: PhaseIdle}
}

// Submit starts a new batch. Invalid input is rejected with no transition.
// Otherwise, from any phase, the machine moves to loading, clears the previous
// results and error, and returns the ticket the outcome must be reported with.
func (s *State) Submit(input model.UserInput) (Ticket, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current++
	s.phase = PhaseLoading
	s.input = input
	s.results = nil
	s.errMsg = ""
	return s.current, nil
}

// Resolve moves to success, even when every result is a placeholder.
// It reports false, and changes nothing, if the ticket was superseded.
func (s *State) Resolve(t Ticket, results []model.GeneratedResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.current || s.phase != PhaseLoading {
		return false
	}
	s.phase = PhaseSuccess
	s.results = results
	return true
}

// Reject moves to error with a message fit for the banner.
// It reports false, and changes nothing, if the ticket was superseded.
func (s *State) Reject(t Ticket, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.current || s.phase != PhaseLoading {
		return false
	}
	s.phase = PhaseError
	s.errMsg = service.UserMessage(err)
	return true
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Phase:   s.phase,
		Input:   s.input,
		Results: append([]model.GeneratedResult(nil), s.results...),
		Error:   s.errMsg,
	}
}

// Result returns the i-th displayed result.
func (s *State) Result(i int) (model.GeneratedResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.results) {
		return model.GeneratedResult{}, false
	}
	return s.results[i], true
}
