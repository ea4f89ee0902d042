package onboarding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/cortex-client/internal/backend"
	"github.com/Proton-105/cortex-client/internal/domain"
	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/internal/kv"
	"github.com/Proton-105/cortex-client/internal/profile"
	"github.com/Proton-105/cortex-client/internal/state"
)

type spyStore struct {
	profile.Store
	saves int
}

func (s *spyStore) Save(ctx context.Context, p *domain.UserProfile) {
	s.saves++
	s.Store.Save(ctx, p)
}

type recordingView struct {
	screens []string
	home    *domain.UserProfile
	errors  []string
}

func (v *recordingView) ShowSurvey() { v.screens = append(v.screens, "survey") }
func (v *recordingView) ShowSignIn() { v.screens = append(v.screens, "sign_in") }
func (v *recordingView) ShowHome(p *domain.UserProfile) {
	v.screens = append(v.screens, "home")
	v.home = p
}
func (v *recordingView) ShowError(msg string) { v.errors = append(v.errors, msg) }

func (v *recordingView) last() string {
	if len(v.screens) == 0 {
		return ""
	}
	return v.screens[len(v.screens)-1]
}

type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	received []domain.UserProfile
}

func (n *fakeNotifier) NotifyOnboarding(_ context.Context, p *domain.UserProfile) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, *p)
	return n.err
}

func (n *fakeNotifier) calls() []domain.UserProfile {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.UserProfile(nil), n.received...)
}

type harness struct {
	flow       *Flow
	store      *spyStore
	view       *recordingView
	notifier   *fakeNotifier
	dispatcher *backend.Dispatcher
}

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func newHarness(t *testing.T, existing *domain.UserProfile) *harness {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &spyStore{Store: profile.NewKVStore(kv.NewMemoryStore(), log, nil)}
	if existing != nil {
		store.Store.Save(context.Background(), existing)
	}

	h := &harness{
		store:      store,
		view:       &recordingView{},
		notifier:   &fakeNotifier{},
		dispatcher: backend.NewDispatcher(log, nil, time.Second),
	}
	flow, err := NewFlow(Deps{
		Store:      store,
		View:       h.view,
		Notifier:   h.notifier,
		Dispatcher: h.dispatcher,
		Errors:     apperrors.NewHandler(log, false),
		Log:        log,
		Now:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	h.flow = flow

	return h
}

func (h *harness) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, h.dispatcher.Wait(context.Background()))
}

func TestFlow_SubmitValidProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.flow.Start(ctx))
	assert.Equal(t, state.StateSurveyPending, h.flow.State())
	assert.Equal(t, []string{"survey"}, h.view.screens)

	require.NoError(t, h.flow.Submit(ctx, "  Ada ", " 34 "))
	h.drain(t)

	assert.Equal(t, state.StateResolved, h.flow.State())
	assert.Equal(t, "home", h.view.last())
	assert.Empty(t, h.view.errors)
	assert.Equal(t, 1, h.store.saves)

	p := h.flow.Profile()
	require.NotNil(t, p)
	assert.Equal(t, "Ada", p.DisplayName)
	assert.Equal(t, 34, p.Age)
	assert.Len(t, p.ID, 32)
	assert.True(t, p.CreatedAt.Equal(fixedNow))

	stored, ok := h.store.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, p.ID, stored.ID)

	sent := h.notifier.calls()
	require.Len(t, sent, 1)
	assert.Equal(t, p.ID, sent[0].ID)
	assert.Equal(t, "Ada", sent[0].DisplayName)
	assert.Equal(t, 34, sent[0].Age)
}

func TestFlow_SubmitInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		age  string
		user string
	}{
		{name: "empty name", user: "", age: "34"},
		{name: "whitespace name", user: " \t ", age: "34"},
		{name: "negative age", user: "Ada", age: "-1"},
		{name: "unparseable age", user: "Ada", age: "thirty"},
		{name: "empty age", user: "Ada", age: ""},
		{name: "fractional age", user: "Ada", age: "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, nil)
			require.NoError(t, h.flow.Start(ctx))

			err := h.flow.Submit(ctx, tt.user, tt.age)
			h.drain(t)

			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
			assert.Equal(t, state.StateSurveyPending, h.flow.State())
			assert.Equal(t, []string{"Please enter a valid name and age."}, h.view.errors)
			assert.Zero(t, h.store.saves)
			assert.Nil(t, h.flow.Profile())
			assert.Empty(t, h.notifier.calls())

			_, ok := h.store.Load(ctx)
			assert.False(t, ok)
		})
	}
}

func TestFlow_ZeroAgeIsValid(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.flow.Start(ctx))

	require.NoError(t, h.flow.Submit(ctx, "Baby", "0"))
	h.drain(t)

	assert.Equal(t, state.StateResolved, h.flow.State())
	assert.Equal(t, 0, h.flow.Profile().Age)
}

func TestFlow_ReturningUserSkipsSurvey(t *testing.T) {
	ctx := context.Background()
	existing := domain.NewUserProfile("Grace", 45, fixedNow.Add(-24*time.Hour))
	h := newHarness(t, existing)

	require.NoError(t, h.flow.Start(ctx))
	h.drain(t)

	assert.Equal(t, state.StateResolved, h.flow.State())
	assert.Equal(t, []string{"home"}, h.view.screens)
	assert.Equal(t, existing.ID, h.view.home.ID)
	assert.Zero(t, h.store.saves)
	assert.Empty(t, h.notifier.calls())
}

func TestFlow_SignInWithoutStoredUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.flow.Start(ctx))

	require.NoError(t, h.flow.ChooseExistingAccount(ctx))
	assert.Equal(t, state.StateSignInPending, h.flow.State())
	assert.Equal(t, "sign_in", h.view.last())

	err := h.flow.SignIn(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSignIn))
	assert.Equal(t, state.StateSignInPending, h.flow.State())
	assert.Equal(t, []string{"No existing user found on this device."}, h.view.errors)

	require.NoError(t, h.flow.Back(ctx))
	assert.Equal(t, state.StateSurveyPending, h.flow.State())
	assert.Equal(t, "survey", h.view.last())
}

func TestFlow_SignInFindsStoredUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.flow.Start(ctx))
	require.NoError(t, h.flow.ChooseExistingAccount(ctx))

	existing := domain.NewUserProfile("Grace", 45, fixedNow)
	h.store.Store.Save(ctx, existing)

	require.NoError(t, h.flow.SignIn(ctx))
	assert.Equal(t, state.StateResolved, h.flow.State())
	assert.Equal(t, existing.ID, h.flow.Profile().ID)
	assert.Equal(t, "home", h.view.last())
}

func TestFlow_BackendFailureDoesNotAffectState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.notifier.err = errors.New("connection refused")
	require.NoError(t, h.flow.Start(ctx))

	require.NoError(t, h.flow.Submit(ctx, "Ada", "34"))
	h.drain(t)

	assert.Equal(t, state.StateResolved, h.flow.State())
	assert.Empty(t, h.view.errors)
	assert.Len(t, h.notifier.calls(), 1)
	_, ok := h.store.Load(ctx)
	assert.True(t, ok)
}

func TestFlow_StartOnlyOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.flow.Start(ctx))
	assert.ErrorIs(t, h.flow.Start(ctx), ErrAlreadyStarted)
	assert.Equal(t, []string{"survey"}, h.view.screens)
}

func TestFlow_ActionsInWrongState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	err := h.flow.Submit(ctx, "Ada", "34")
	assert.ErrorIs(t, err, state.ErrInvalidTransition)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeState))

	require.NoError(t, h.flow.Start(ctx))
	assert.ErrorIs(t, h.flow.SignIn(ctx), state.ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.Back(ctx), state.ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.SignOut(ctx), state.ErrInvalidTransition)
	assert.Equal(t, state.StateSurveyPending, h.flow.State())
	assert.Zero(t, h.store.saves)
}

func TestFlow_SignOut(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, domain.NewUserProfile("Grace", 45, fixedNow))
	require.NoError(t, h.flow.Start(ctx))

	require.NoError(t, h.flow.SignOut(ctx))

	assert.Equal(t, state.StateSurveyPending, h.flow.State())
	assert.Nil(t, h.flow.Profile())
	assert.Equal(t, "survey", h.view.last())
	_, ok := h.store.Load(ctx)
	assert.False(t, ok)
}

func TestFlow_RecordsTransitions(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got []string
	f, err := NewFlow(Deps{
		Store: profile.NewKVStore(kv.NewMemoryStore(), log, nil),
		View:  &recordingView{},
		Log:   log,
		Recorder: func(from, to state.State) {
			got = append(got, from.String()+">"+to.String())
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.Start(ctx))
	require.NoError(t, f.ChooseExistingAccount(ctx))
	require.NoError(t, f.Back(ctx))
	require.NoError(t, f.Submit(ctx, "Ada", "34"))

	assert.Equal(t, []string{
		"unresolved>survey_pending",
		"survey_pending>sign_in_pending",
		"sign_in_pending>survey_pending",
		"survey_pending>resolved",
	}, got)
}

func TestNewFlow_RequiresCollaborators(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := profile.NewKVStore(kv.NewMemoryStore(), log, nil)

	tests := []struct {
		name string
		deps Deps
	}{
		{name: "no store", deps: Deps{View: &recordingView{}, Log: log}},
		{name: "no view", deps: Deps{Store: store, Log: log}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFlow(tt.deps)
			assert.Error(t, err)
			assert.Nil(t, f)
		})
	}
}

func TestNewFlow_DefaultMessages(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	view := &recordingView{}

	f, err := NewFlow(Deps{Store: profile.NewKVStore(kv.NewMemoryStore(), log, nil), View: view, Log: log})
	require.NoError(t, err)

	require.NoError(t, f.Start(ctx))
	require.Error(t, f.Submit(ctx, "", "34"))
	require.NoError(t, f.ChooseExistingAccount(ctx))
	require.Error(t, f.SignIn(ctx))

	assert.Equal(t, []string{
		"Please enter a valid name and age.",
		"No existing user found on this device.",
	}, view.errors)
}
