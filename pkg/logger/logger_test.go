package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/cortex-client/pkg/config"
)

func TestMaskingHandler_MasksSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	log.With(slog.String("token", "abc")).Info("login",
		slog.String("password", "hunter2"),
		slog.Group("request", slog.String("Authorization", "Bearer xyz"), slog.String("path", "/users/")),
		slog.String("username", "ada"),
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "Bearer xyz")
	assert.NotContains(t, out, "abc")
	assert.Contains(t, out, "username=ada")
	assert.Contains(t, out, "request.path=/users/")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantErr, err != nil)
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	l := New(config.Config{AppEnv: "test", Logger: config.LoggerConfig{Level: "error"}})
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, slog.LevelError, l.Level())
	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, l.Level())
	assert.Error(t, l.SetLevel("nope"))
}

func TestWithCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationIDFromContext(ctx))

	tagged := WithCorrelationID(ctx)
	id := CorrelationIDFromContext(tagged)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, CorrelationIDFromContext(WithCorrelationID(tagged)))
}
