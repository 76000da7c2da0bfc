package pipeline

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// State is the progress of one run.
type State int

const (
	StateInit State = iota
	StateStage1Done
	StateStage2Done
	StateStage3Done
	StateStage4Pending
	StateDone
)

var stateNames = map[State]string{
	StateInit:          "init",
	StateStage1Done:    "stage1_done",
	StateStage2Done:    "stage2_done",
	StateStage3Done:    "stage3_done",
	StateStage4Pending: "stage4_pending",
	StateDone:          "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown assessment state %q", text)
}

// IncompleteError is returned when a run is cancelled. No partial result
// accompanies it.
type IncompleteError struct {
	State State
	Err   error
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("assessment incomplete after %s: %v", e.State, e.Err)
}

func (e *IncompleteError) Unwrap() error { return e.Err }

// tracker records state transitions. Stages 3 and 4 advance it from
// different goroutines.
type tracker struct {
	mu     sync.Mutex
	state  State
	logger *zap.Logger
}

func (t *tracker) advance(next State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.Debug("assessment state changed",
		zap.Stringer("from", t.state),
		zap.Stringer("to", next),
	)
	t.state = next
}

func (t *tracker) current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
