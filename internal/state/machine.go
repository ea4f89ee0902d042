package state

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidTransition indicates that a requested transition is not allowed.
var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionRecorder observes successful transitions.
type TransitionRecorder func(from, to State)

// Machine holds the current onboarding state. It lives for the duration of startup, is never
// persisted, and is not safe for concurrent use.
type Machine struct {
	current  State
	log      *slog.Logger
	recorder TransitionRecorder
}

// NewMachine creates a machine in StateUnresolved. recorder may be nil.
func NewMachine(log *slog.Logger, recorder TransitionRecorder) *Machine {
	if log == nil {
		log = slog.Default()
	}
	if recorder == nil {
		recorder = func(State, State) {}
	}

	return &Machine{
		current:  StateUnresolved,
		log:      log,
		recorder: recorder,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	return m.current
}

// Is reports whether the machine is in s.
func (m *Machine) Is(s State) bool {
	return m.current == s
}

// TransitionTo changes the state if the transition is allowed.
func (m *Machine) TransitionTo(next State) error {
	from := m.current
	if !IsTransitionAllowed(from, next) {
		m.log.Warn("invalid state transition", "from", from, "to", next)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}

	m.current = next
	m.log.Debug("state transition", "from", from, "to", next)
	m.recorder(from, next)

	return nil
}
