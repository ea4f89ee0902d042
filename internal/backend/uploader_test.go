package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSessionUploader_LogsInOnceAndUploads(t *testing.T) {
	defer goleak.VerifyNone(t)

	var logins, uploads atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "opaque", "token_type": "bearer"})
	})
	mux.HandleFunc("POST /sessions/", func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
		assert.Equal(t, "Bearer opaque", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":1,"user_id":1,"started_at":"2026-03-01T09:00:00Z","duration_seconds":5}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, nil)
	d := NewDispatcher(nil, nil, time.Second)
	u := NewSessionUploader(client, d, "ada@example.com", "hunter22", nil)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	u.SessionStarted(start)
	u.SessionEnded(start, 5*time.Second)
	require.NoError(t, d.Wait(context.Background()))

	u.SessionEnded(start.Add(time.Minute), 7*time.Second)
	require.NoError(t, d.Wait(context.Background()))

	assert.Equal(t, int32(1), logins.Load())
	assert.Equal(t, int32(2), uploads.Load())
	srv.CloseClientConnections()
	client.http.CloseIdleConnections()
}
