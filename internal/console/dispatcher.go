package console

import (
	"log/slog"
	"sync"

	"github.com/Proton-105/cortex-client/internal/state"
)

// StateSource reports the current onboarding state.
type StateSource interface {
	State() state.State
}

// Dispatcher routes plain text to the handler registered for the current state.
type Dispatcher struct {
	source        StateSource
	stateHandlers map[state.State]Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(source StateSource, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		source:        source,
		stateHandlers: make(map[state.State]Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s state.State, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// Handler returns the handler for the current state, or nil.
func (d *Dispatcher) Handler() Handler {
	if d == nil || d.source == nil {
		return nil
	}

	current := d.source.State()
	d.mu.RLock()
	h := d.stateHandlers[current]
	d.mu.RUnlock()

	if h == nil {
		d.log.Debug("no handler registered for state", "state", current)
	}
	return h
}
