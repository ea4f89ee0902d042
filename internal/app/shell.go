// Package app holds the root controller of the client: it owns the onboarding flow and the
// session clock for one run of the process.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Proton-105/cortex-client/internal/domain"
	"github.com/Proton-105/cortex-client/internal/onboarding"
	"github.com/Proton-105/cortex-client/internal/session"
	"github.com/Proton-105/cortex-client/internal/state"
)

// View is the UI surface driven by the shell.
type View interface {
	onboarding.View
	ShowSession(start time.Time)
}

// Waiter drains background work at shutdown.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Deps are the collaborators of a Shell. Flow, Clock and View are required.
type Deps struct {
	Flow       *onboarding.Flow
	Clock      *session.Clock
	View       View
	Background Waiter
	Log        *slog.Logger
}

// Shell is the explicitly constructed root object handed to the UI layer.
type Shell struct {
	flow       *onboarding.Flow
	clock      *session.Clock
	view       View
	background Waiter
	log        *slog.Logger
}

func New(deps Deps) (*Shell, error) {
	switch {
	case deps.Flow == nil:
		return nil, errors.New("app: onboarding flow is required")
	case deps.Clock == nil:
		return nil, errors.New("app: session clock is required")
	case deps.View == nil:
		return nil, errors.New("app: view is required")
	}

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	return &Shell{
		flow:       deps.Flow,
		clock:      deps.Clock,
		view:       deps.View,
		background: deps.Background,
		log:        log,
	}, nil
}

// Run resolves onboarding. A second call returns onboarding.ErrAlreadyStarted.
func (s *Shell) Run(ctx context.Context) error {
	return s.flow.Start(ctx)
}

// Flow exposes the onboarding actions to the UI layer.
func (s *Shell) Flow() *onboarding.Flow {
	return s.flow
}

// State returns the onboarding state.
func (s *Shell) State() state.State {
	return s.flow.State()
}

// Profile returns the resolved profile, or nil.
func (s *Shell) Profile() *domain.UserProfile {
	return s.flow.Profile()
}

// StartNewSession starts the session clock and shows the session view. The view is refreshed
// even when a session was already running.
func (s *Shell) StartNewSession() {
	s.clock.Start()
	start, _ := s.clock.StartedAt()
	s.view.ShowSession(start)
}

// EndCurrentSession stops the session clock and shows home. The view is refreshed even when no
// session was running.
func (s *Shell) EndCurrentSession() {
	s.clock.End()
	s.view.ShowHome(s.flow.Profile())
}

func (s *Shell) IsSessionActive() bool {
	return s.clock.IsActive()
}

func (s *Shell) LastDuration() time.Duration {
	return s.clock.LastDuration()
}

// SignOut ends a running session and clears the stored profile.
func (s *Shell) SignOut(ctx context.Context) error {
	if s.clock.IsActive() {
		s.clock.End()
	}
	return s.flow.SignOut(ctx)
}

// Close waits for in-flight background work until ctx is done.
func (s *Shell) Close(ctx context.Context) error {
	if s.clock.IsActive() {
		s.clock.End()
	}
	if s.background == nil {
		return nil
	}

	if err := s.background.Wait(ctx); err != nil {
		s.log.WarnContext(ctx, "background work abandoned", "error", err)
		return err
	}
	return nil
}
