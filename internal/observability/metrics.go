package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	toolCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "babylog",
		Subsystem: "mcp",
		Name:      "tool_calls_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	activitiesPersistedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "babylog",
		Subsystem: "diary",
		Name:      "activities_persisted_total",
		Help:      "Persisted activity records by kind.",
	}, []string{"kind"})

	lastActivityPersistedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "babylog",
		Subsystem: "diary",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent persisted activity record.",
	})

	timeResolutionFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "babylog",
		Subsystem: "nlp",
		Name:      "time_resolution_fallbacks_total",
		Help:      "Phrases the time resolver could not interpret and returned unchanged.",
	})
)

func init() {
	prometheus.MustRegister(
		toolCallsTotal,
		activitiesPersistedTotal,
		lastActivityPersistedGauge,
		timeResolutionFallbacksTotal,
	)
}

// RecordToolCall counts one tool invocation. Outcome is "ok" or "error".
func RecordToolCall(tool, outcome string) {
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// RecordActivityPersisted counts one stored record and moves the watermark.
func RecordActivityPersisted(kind string, ts time.Time) {
	activitiesPersistedTotal.WithLabelValues(kind).Inc()
	if !ts.IsZero() {
		lastActivityPersistedGauge.Set(float64(ts.Unix()))
	}
}

// RecordTimeResolutionFallback counts an uninterpretable time phrase.
func RecordTimeResolutionFallback() {
	timeResolutionFallbacksTotal.Inc()
}
