package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthbridge",
		Subsystem: "query",
		Name:      "requests_total",
		Help:      "Health data queries by platform and result code. Code \"ok\" means success.",
	}, []string{"platform", "code"})

	samplesReturned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthbridge",
		Subsystem: "query",
		Name:      "samples_returned_total",
		Help:      "Normalized samples returned to callers, by platform.",
	}, []string{"platform"})

	eventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthbridge",
		Subsystem: "events",
		Name:      "emitted_total",
		Help:      "Bridge events emitted, by event name.",
	}, []string{"event"})

	lastSyncGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthbridge",
		Subsystem: "sync",
		Name:      "last_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent background sync tick.",
	})
)

func init() {
	prometheus.MustRegister(queriesTotal, samplesReturned, eventsEmitted, lastSyncGauge)
}

// RecordQuery counts one resolved health data query.
func RecordQuery(platform string, errorCode string, samples int) {
	code := errorCode
	if code == "" {
		code = "ok"
	}
	queriesTotal.WithLabelValues(platform, code).Inc()
	if samples > 0 {
		samplesReturned.WithLabelValues(platform).Add(float64(samples))
	}
}

// RecordEvent counts one emitted bridge event.
func RecordEvent(name string) {
	eventsEmitted.WithLabelValues(name).Inc()
}

// RecordSyncCompleted updates the background sync watermark gauge.
func RecordSyncCompleted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastSyncGauge.Set(float64(ts.Unix()))
}
