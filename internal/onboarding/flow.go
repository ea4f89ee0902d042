// Package onboarding decides at startup whether the user creates a profile or signs in with
// the one already stored on the device.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Proton-105/cortex-client/internal/backend"
	"github.com/Proton-105/cortex-client/internal/domain"
	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/internal/i18n"
	"github.com/Proton-105/cortex-client/internal/profile"
	"github.com/Proton-105/cortex-client/internal/state"
)

// ErrAlreadyStarted is returned when Start is called more than once.
var ErrAlreadyStarted = errors.New("onboarding already started")

// notifyTask names the background onboarding notification in logs and metrics.
const notifyTask = "onboarding_notify"

// View renders the screens the flow switches between.
type View interface {
	ShowSurvey()
	ShowSignIn()
	ShowHome(p *domain.UserProfile)
	ShowError(msg string)
}

// Dispatcher runs detached background work.
type Dispatcher interface {
	Go(ctx context.Context, name string, fn backend.Task)
}

// Deps are the collaborators of a Flow. Store and View are required.
type Deps struct {
	Store      profile.Store
	View       View
	Notifier   backend.Notifier
	Dispatcher Dispatcher
	Messages   i18n.Translator
	Errors     *apperrors.Handler
	Recorder   state.TransitionRecorder
	Log        *slog.Logger
	Now        func() time.Time
}

type surveyInput struct {
	Name string `validate:"required"`
	Age  int    `validate:"gte=0"`
}

// Flow is the onboarding controller. It is driven from a single goroutine.
type Flow struct {
	store      profile.Store
	view       View
	notifier   backend.Notifier
	dispatcher Dispatcher
	messages   i18n.Translator
	errs       *apperrors.Handler
	log        *slog.Logger
	now        func() time.Time
	validate   *validator.Validate

	machine *state.Machine
	started bool
	profile *domain.UserProfile
}

// NewFlow builds a flow in the unresolved state. Messages default to the embedded English
// catalog.
func NewFlow(deps Deps) (*Flow, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("onboarding: profile store is required")
	case deps.View == nil:
		return nil, errors.New("onboarding: view is required")
	}

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	messages := deps.Messages
	if messages == nil {
		m, err := i18n.Load("en")
		if err != nil {
			return nil, fmt.Errorf("onboarding: load messages: %w", err)
		}
		messages = m.Translator("en")
	}

	return &Flow{
		store:      deps.Store,
		view:       deps.View,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		messages:   messages,
		errs:       deps.Errors,
		log:        log,
		now:        now,
		validate:   validator.New(),
		machine:    state.NewMachine(log, deps.Recorder),
	}, nil
}

// State returns the current onboarding state.
func (f *Flow) State() state.State {
	return f.machine.Current()
}

// Profile returns the resolved profile, or nil before resolution.
func (f *Flow) Profile() *domain.UserProfile {
	return f.profile
}

// Start resolves the startup view. A stored profile goes straight home; otherwise the survey
// is shown. It may be called once.
func (f *Flow) Start(ctx context.Context) error {
	if f.started {
		return ErrAlreadyStarted
	}
	f.started = true

	if p, ok := f.store.Load(ctx); ok {
		f.log.InfoContext(ctx, "returning user", "user_id", p.ID)
		return f.resolve(p)
	}

	if err := f.machine.TransitionTo(state.StateSurveyPending); err != nil {
		return err
	}
	f.view.ShowSurvey()
	return nil
}

// Submit handles the create-profile survey. Invalid input keeps the survey open and returns a
// validation error; valid input saves the profile, shows home and notifies the backend in the
// background.
func (f *Flow) Submit(ctx context.Context, name, ageText string) error {
	if err := f.require(ctx, state.StateSurveyPending, "submit"); err != nil {
		return err
	}

	input, err := f.parseSurvey(name, ageText)
	if err != nil {
		return f.fail(ctx, apperrors.NewValidationError(err.Error(), f.messages.T(i18n.KeyInvalidInput)))
	}

	p := domain.NewUserProfile(input.Name, input.Age, f.now())
	f.store.Save(ctx, p)
	f.log.InfoContext(ctx, "profile created", "user_id", p.ID)

	if err := f.resolve(p); err != nil {
		return err
	}

	f.notify(ctx, p)
	return nil
}

// ChooseExistingAccount switches from the survey to the sign-in view.
func (f *Flow) ChooseExistingAccount(ctx context.Context) error {
	if err := f.move(ctx, state.StateSignInPending, "choose existing account"); err != nil {
		return err
	}
	f.view.ShowSignIn()
	return nil
}

// SignIn looks the stored profile up again. Without one the flow stays on the sign-in view.
func (f *Flow) SignIn(ctx context.Context) error {
	if err := f.require(ctx, state.StateSignInPending, "sign in"); err != nil {
		return err
	}

	p, ok := f.store.Load(ctx)
	if !ok {
		return f.fail(ctx, apperrors.NewSignInError(f.messages.T(i18n.KeyNoExistingUser)))
	}

	return f.resolve(p)
}

// Back returns from the sign-in view to the survey.
func (f *Flow) Back(ctx context.Context) error {
	if err := f.require(ctx, state.StateSignInPending, "back"); err != nil {
		return err
	}
	if err := f.move(ctx, state.StateSurveyPending, "back"); err != nil {
		return err
	}
	f.view.ShowSurvey()
	return nil
}

// SignOut clears the stored profile and reopens the survey.
func (f *Flow) SignOut(ctx context.Context) error {
	if err := f.move(ctx, state.StateSurveyPending, "sign out"); err != nil {
		return err
	}

	f.store.Clear(ctx)
	f.profile = nil
	f.view.ShowSurvey()
	return nil
}

func (f *Flow) parseSurvey(name, ageText string) (surveyInput, error) {
	age, err := strconv.Atoi(strings.TrimSpace(ageText))
	if err != nil {
		return surveyInput{}, fmt.Errorf("age %q is not an integer", ageText)
	}

	input := surveyInput{Name: strings.TrimSpace(name), Age: age}
	if err := f.validate.Struct(input); err != nil {
		return surveyInput{}, fmt.Errorf("invalid survey input: %w", err)
	}

	return input, nil
}

func (f *Flow) resolve(p *domain.UserProfile) error {
	if err := f.machine.TransitionTo(state.StateResolved); err != nil {
		return err
	}
	f.profile = p
	f.view.ShowHome(p)
	return nil
}

func (f *Flow) notify(ctx context.Context, p *domain.UserProfile) {
	if f.notifier == nil || f.dispatcher == nil {
		return
	}

	snapshot := *p
	f.dispatcher.Go(ctx, notifyTask, func(ctx context.Context) error {
		return f.notifier.NotifyOnboarding(ctx, &snapshot)
	})
}

func (f *Flow) require(ctx context.Context, want state.State, action string) error {
	if f.machine.Is(want) {
		return nil
	}
	cause := fmt.Errorf("%w: %s in %s", state.ErrInvalidTransition, action, f.machine.Current())
	return f.report(ctx, apperrors.NewStateError(action+" is not available", cause))
}

func (f *Flow) move(ctx context.Context, next state.State, action string) error {
	if err := f.machine.TransitionTo(next); err != nil {
		return f.report(ctx, apperrors.NewStateError(action+" is not available", err))
	}
	return nil
}

// fail reports err and shows its user message.
func (f *Flow) fail(ctx context.Context, err error) error {
	f.report(ctx, err)
	f.view.ShowError(apperrors.UserMessage(err))
	return err
}

func (f *Flow) report(ctx context.Context, err error) error {
	if f.errs != nil {
		f.errs.Handle(ctx, err)
	} else {
		f.log.WarnContext(ctx, "onboarding action rejected", "error", err)
	}
	return err
}
