package lifecycle

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Proton-105/cortex-client/internal/health"
)

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

// Probes answers liveness unconditionally and readiness from the component checks.
type Probes struct {
	log     *slog.Logger
	checker *health.Checker
}

// NewProbes creates probes backed by checker. A nil checker is always ready.
func NewProbes(log *slog.Logger, checker *health.Checker) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{log: log, checker: checker}
}

// Liveness reports that the process is running.
func (p *Probes) Liveness(ctx context.Context) error {
	p.log.DebugContext(ctx, "liveness probe called")
	return nil
}

// Readiness runs every registered component check.
func (p *Probes) Readiness(ctx context.Context) error {
	p.log.DebugContext(ctx, "readiness probe called")
	if p.checker == nil {
		return nil
	}
	return p.checker.Err(ctx)
}

// Register mounts /healthz and /readyz on mux.
func (p *Probes) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", probeHandler(p.Liveness))
	mux.HandleFunc("GET /readyz", probeHandler(p.Readiness))
}

func probeHandler(probe func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := probe(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}
}
