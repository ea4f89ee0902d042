package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/cortex-client/internal/health"
)

func TestShutdown_RunsAllHooks(t *testing.T) {
	s := NewShutdown(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var order []string
	s.Register("store", func(context.Context) error {
		order = append(order, "store")
		return errors.New("close failed")
	})
	s.Register("dispatcher", func(context.Context) error {
		order = append(order, "dispatcher")
		return nil
	})
	s.Register("nil", nil)

	err := s.Execute(context.Background())

	assert.EqualError(t, err, "store: close failed")
	assert.Equal(t, []string{"dispatcher", "store"}, order)

	require.NoError(t, s.Execute(context.Background()))
	assert.Len(t, order, 2)
}

func TestProbes_Handlers(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker := health.NewChecker(log, time.Second)
	var healthy atomic.Bool
	checker.AddCheck("store", health.CheckFunc(func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("unreachable")
	}))

	mux := http.NewServeMux()
	NewProbes(log, checker).Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	status := func(path string) int {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, status("/healthz"))
	assert.Equal(t, http.StatusServiceUnavailable, status("/readyz"))

	healthy.Store(true)
	assert.Equal(t, http.StatusOK, status("/readyz"))
}
