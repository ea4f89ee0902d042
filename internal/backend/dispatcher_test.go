package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type ctxKey struct{}

func TestDispatcher_RunsDetachedTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, time.Second)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "corr"))
	release := make(chan struct{})
	var ran, failed atomic.Int32

	d.Go(ctx, "ok", func(taskCtx context.Context) error {
		<-release
		assert.NoError(t, taskCtx.Err())
		assert.Equal(t, "corr", taskCtx.Value(ctxKey{}))
		ran.Add(1)
		return nil
	})
	d.Go(ctx, "broken", func(context.Context) error {
		failed.Add(1)
		return errors.New("boom")
	})

	// The caller giving up must not cancel the task.
	cancel()
	close(release)

	require.NoError(t, d.Wait(context.Background()))
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, int32(1), failed.Load())
}

func TestDispatcher_TimeoutBoundsTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(nil, nil, 20*time.Millisecond)

	var sawDeadline atomic.Bool
	d.Go(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})

	require.NoError(t, d.Wait(context.Background()))
	assert.True(t, sawDeadline.Load())
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, time.Second)
	d.Go(context.Background(), "panicky", func(context.Context) error {
		panic("unexpected")
	})

	require.NoError(t, d.Wait(context.Background()))
}

func TestDispatcher_WaitHonorsContext(t *testing.T) {
	d := NewDispatcher(nil, nil, time.Second)
	release := make(chan struct{})
	d.Go(context.Background(), "blocked", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Wait(context.Background()))
}
