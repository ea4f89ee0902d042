// Package profile persists the single local user profile on top of a key-value store.
//
// Every operation is best effort: persistence failures are logged and reported as
// "nothing happened" rather than returned to the caller.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/Proton-105/cortex-client/internal/domain"
	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/internal/kv"
)

const (
	// ProfileKey holds the serialized UserProfile.
	ProfileKey = "cortexai.user_profile"
	// APIBaseKey holds the optional backend base URL override.
	APIBaseKey = "cortexai.api_base"
)

// Store persists and retrieves the local user profile.
type Store interface {
	Save(ctx context.Context, p *domain.UserProfile)
	Load(ctx context.Context) (*domain.UserProfile, bool)
	Clear(ctx context.Context)
}

// FailureRecorder observes swallowed storage failures.
type FailureRecorder func(op string)

// KVStore is the Store implementation backed by kv.Store.
type KVStore struct {
	kv        kv.Store
	log       *slog.Logger
	onFailure FailureRecorder
}

// NewKVStore wraps backend. onFailure may be nil.
func NewKVStore(backend kv.Store, log *slog.Logger, onFailure FailureRecorder) *KVStore {
	if log == nil {
		log = slog.Default()
	}
	if onFailure == nil {
		onFailure = func(string) {}
	}

	return &KVStore{kv: backend, log: log, onFailure: onFailure}
}

// Save overwrites the stored profile. Failures are swallowed.
func (s *KVStore) Save(ctx context.Context, p *domain.UserProfile) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(p)
	if err != nil {
		s.fail(ctx, "encode", err)
		return
	}

	if err := s.kv.Set(ctx, ProfileKey, payload); err != nil {
		s.fail(ctx, "save", err)
	}
}

// Load returns the stored profile. Missing, unreadable and corrupt records all report absent.
func (s *KVStore) Load(ctx context.Context) (*domain.UserProfile, bool) {
	payload, err := s.kv.Get(ctx, ProfileKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.fail(ctx, "load", err)
		}
		return nil, false
	}

	var p domain.UserProfile
	if err := json.Unmarshal(payload, &p); err != nil {
		s.fail(ctx, "decode", err)
		return nil, false
	}

	if !p.Valid() {
		s.log.WarnContext(ctx, "stored profile is incomplete, treating as absent")
		return nil, false
	}

	return &p, true
}

// Clear removes any stored profile. Idempotent.
func (s *KVStore) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, ProfileKey); err != nil {
		s.fail(ctx, "clear", err)
	}
}

// APIBase returns the stored backend override, or "" when none is set.
func (s *KVStore) APIBase(ctx context.Context) string {
	value, err := s.kv.Get(ctx, APIBaseKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.fail(ctx, "load_api_base", err)
		}
		return ""
	}

	return strings.TrimSpace(string(value))
}

// SetAPIBase stores the backend override; a blank base removes it.
func (s *KVStore) SetAPIBase(ctx context.Context, base string) {
	base = strings.TrimSpace(base)

	var err error
	if base == "" {
		err = s.kv.Delete(ctx, APIBaseKey)
	} else {
		err = s.kv.Set(ctx, APIBaseKey, []byte(base))
	}

	if err != nil {
		s.fail(ctx, "save_api_base", err)
	}
}

func (s *KVStore) fail(ctx context.Context, op string, err error) {
	s.onFailure(op)
	appErr := apperrors.NewStorageError(op, err)
	s.log.WarnContext(ctx, "profile storage failure ignored",
		slog.String("code", appErr.Code),
		slog.String("operation", op),
		slog.Any("error", err),
	)
}
