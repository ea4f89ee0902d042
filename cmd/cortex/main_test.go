package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/cortex-client/internal/domain"
	"github.com/Proton-105/cortex-client/internal/kv"
	"github.com/Proton-105/cortex-client/internal/profile"
)

// writeConfig points a config file at apiBase and a fresh SQLite database.
func writeConfig(t *testing.T, apiBase string) (cfgPath, dbPath string) {
	t.Helper()

	dir := t.TempDir()
	dbPath = filepath.Join(dir, "cortex.db")
	cfgPath = filepath.Join(dir, "cortex.yaml")

	cfg := fmt.Sprintf(`locale: en
logger:
  level: error
  file: %s
backend:
  api_base: %s
  timeout: 2s
  notify_timeout: 2s
  username: ada@example.com
  password: hunter22
storage:
  driver: sqlite
  sqlite_path: %s
`, filepath.Join(dir, "cortex.log"), apiBase, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	return cfgPath, dbPath
}

func seedProfile(t *testing.T, dbPath string, p *domain.UserProfile) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := kv.OpenSQLite(context.Background(), dbPath, log)
	require.NoError(t, err)
	defer store.Close()

	profile.NewKVStore(store, log, nil).Save(context.Background(), p)
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Cleanup(func() {
		configPath, verbose, showRemote = "", false, false
		dashUser, dashPassword = "", ""
	})

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	return out.String()
}

func TestProfileShow_Remote(t *testing.T) {
	p := domain.NewUserProfile("Ada", 36, time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))

	tests := []struct {
		name   string
		synced bool
		want   string
	}{
		{name: "synced", synced: true, want: "Backend:  #5 Ada, 36"},
		{name: "not synced", synced: false, want: "Backend:  not synced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /onboarding/{id}", func(w http.ResponseWriter, r *http.Request) {
				if !tt.synced || r.PathValue("id") != p.ID {
					http.NotFound(w, r)
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id": 5, "client_user_id": p.ID, "display_name": p.DisplayName, "age": p.Age,
				})
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			cfgPath, dbPath := writeConfig(t, srv.URL)
			seedProfile(t, dbPath, p)

			out := execute(t, "--config", cfgPath, "profile", "show", "--remote")

			assert.Contains(t, out, "Name:     Ada")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestDashboardMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ada@example.com", r.PostForm.Get("username"))
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "opaque", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer opaque", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":3,"email":"ada@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfgPath, _ := writeConfig(t, srv.URL)
	out := execute(t, "--config", cfgPath, "dashboard", "me")

	assert.Contains(t, out, "ID:    3")
	assert.Contains(t, out, "Email: ada@example.com")
}
