package prediction

import (
	"context"
	"sync"
	"sync/atomic"

	"spacetraffic/internal/types"
)

// State is the interactive session state.
type State int32

const (
	StateIdle State = iota
	StateComputing
)

func (s State) String() string {
	if s == StateComputing {
		return "computing"
	}
	return "idle"
}

// Submitter performs one submission.
type Submitter interface {
	Submit(ctx context.Context, in Input) (*Result, error)
}

// Session serializes submissions from one interactive front-end. A submit
// while another is computing fails with conflict_submission_in_progress. The
// last submitted input is kept so the form can be prefilled.
type Session struct {
	svc   Submitter
	mu    sync.Mutex
	state atomic.Int32

	lastMu sync.Mutex
	last   *Input
}

// NewSession returns an idle session.
func NewSession(svc Submitter) *Session {
	return &Session{svc: svc}
}

// State returns the current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Submit runs one submission and returns to Idle whatever the outcome.
func (s *Session) Submit(ctx context.Context, in Input) (*Result, error) {
	if !s.mu.TryLock() {
		return nil, types.NewAppError(types.ErrCodeConflictSubmission, "a prediction is already being computed", nil)
	}
	defer s.mu.Unlock()

	s.state.Store(int32(StateComputing))
	defer s.state.Store(int32(StateIdle))

	s.lastMu.Lock()
	saved := in
	s.last = &saved
	s.lastMu.Unlock()

	return s.svc.Submit(ctx, in)
}

// Last returns the most recent input and whether one exists.
func (s *Session) Last() (Input, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	if s.last == nil {
		return Input{}, false
	}
	return *s.last, true
}
