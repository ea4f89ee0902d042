package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Proton-105/cortex-client/internal/state"
)

// Backend sync outcomes.
const (
	SyncOK      = "ok"
	SyncFailed  = "failed"
	SyncTimeout = "timeout"
)

var (
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortex_onboarding_transitions_total",
			Help: "Total number of onboarding state transitions",
		},
		[]string{"from", "to"},
	)
	sessionsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortex_sessions_started_total",
			Help: "Total number of focus sessions started",
		},
	)
	sessionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cortex_session_duration_seconds",
			Help:    "Duration of completed focus sessions in seconds",
			Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400},
		},
	)
	sessionActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cortex_session_active",
			Help: "1 while a focus session is running",
		},
	)
	backendSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortex_backend_sync_total",
			Help: "Background backend calls by task and outcome",
		},
		[]string{"task", "outcome"},
	)
	storageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortex_storage_failures_total",
			Help: "Swallowed local storage failures by operation",
		},
		[]string{"operation"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortex_errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
)

// RecordStateTransition tracks onboarding transitions. It satisfies state.TransitionRecorder.
func RecordStateTransition(from, to state.State) {
	stateTransitionsTotal.WithLabelValues(labelOrUnknown(from.String()), labelOrUnknown(to.String())).Inc()
}

// RecordBackendSync counts detached backend calls by task and outcome.
func RecordBackendSync(task, outcome string) {
	backendSyncTotal.WithLabelValues(labelOrUnknown(task), labelOrUnknown(outcome)).Inc()
}

// RecordStorageFailure counts swallowed storage failures. It satisfies profile.FailureRecorder.
func RecordStorageFailure(op string) {
	storageFailuresTotal.WithLabelValues(labelOrUnknown(op)).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	errorsTotal.WithLabelValues(labelOrUnknown(code), labelOrUnknown(severity)).Inc()
}

// SessionRecorder feeds session clock events into the session metrics.
type SessionRecorder struct{}

// SessionStarted implements session.Recorder.
func (SessionRecorder) SessionStarted(time.Time) {
	sessionsStartedTotal.Inc()
	sessionActive.Set(1)
}

// SessionEnded implements session.Recorder.
func (SessionRecorder) SessionEnded(_ time.Time, d time.Duration) {
	sessionActive.Set(0)
	sessionDurationSeconds.Observe(d.Seconds())
}

func labelOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
