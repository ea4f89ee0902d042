// Package session tracks whether a usage session is active and how long the last one lasted.
package session

import (
	"log/slog"
	"time"
)

// phase is either idle or active; there is no "active without a start" value.
type phase interface {
	isPhase()
}

type idle struct{}

type active struct {
	start time.Time
}

func (idle) isPhase()   {}
func (active) isPhase() {}

// Recorder observes completed sessions.
type Recorder interface {
	SessionStarted(start time.Time)
	SessionEnded(start time.Time, duration time.Duration)
}

// Clock is the in-memory session state machine. It is owned by a single caller and is
// not safe for concurrent use.
type Clock struct {
	now          func() time.Time
	phase        phase
	lastDuration time.Duration
	recorders    []Recorder
	log          *slog.Logger
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRecorder adds an observer of session starts and ends.
func WithRecorder(r Recorder) Option {
	return func(c *Clock) {
		if r != nil {
			c.recorders = append(c.recorders, r)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Clock) {
		if log != nil {
			c.log = log
		}
	}
}

func NewClock(opts ...Option) *Clock {
	c := &Clock{
		now:   time.Now,
		phase: idle{},
		log:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start moves Idle to Active at the current instant. It reports false and keeps the original
// start instant when a session is already active.
func (c *Clock) Start() bool {
	if _, ok := c.phase.(active); ok {
		c.log.Debug("session already active")
		return false
	}

	start := c.now()
	c.phase = active{start: start}
	c.log.Info("session started", slog.Time("start", start))

	for _, r := range c.recorders {
		r.SessionStarted(start)
	}

	return true
}

// End moves Active to Idle and records the elapsed time. It reports false and leaves the last
// duration untouched when no session is active.
func (c *Clock) End() bool {
	current, ok := c.phase.(active)
	if !ok {
		c.log.Debug("no active session to end")
		return false
	}

	c.lastDuration = c.now().Sub(current.start)
	c.phase = idle{}
	c.log.Info("session ended", slog.Duration("duration", c.lastDuration))

	for _, r := range c.recorders {
		r.SessionEnded(current.start, c.lastDuration)
	}

	return true
}

func (c *Clock) IsActive() bool {
	_, ok := c.phase.(active)
	return ok
}

func (c *Clock) LastDuration() time.Duration {
	return c.lastDuration
}

// StartedAt returns the start of the active session.
func (c *Clock) StartedAt() (time.Time, bool) {
	if current, ok := c.phase.(active); ok {
		return current.start, true
	}
	return time.Time{}, false
}
