package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	UpdatesTotal       *prometheus.CounterVec
	CapabilityErrors   *prometheus.CounterVec
	RepliesTotal       *prometheus.CounterVec
	TrackedSessions    prometheus.Gauge
	ActiveMediaJobs    prometheus.Gauge
	VoiceStageDuration *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		UpdatesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Inbound updates by kind.",
		}, []string{"kind"}),
		CapabilityErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_errors_total",
			Help:      "External capability failures by capability.",
		}, []string{"capability"}),
		RepliesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Outbound replies by kind.",
		}, []string{"kind"}),
		TrackedSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_sessions",
			Help:      "Number of user sessions currently held in memory.",
		}),
		ActiveMediaJobs: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_media_jobs",
			Help:      "Voice media jobs currently staged on disk.",
		}),
		VoiceStageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "voice_stage_duration_ms",
			Help:      "Duration of each voice pipeline stage in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"stage"}),
	}
}

func (m *Metrics) ObserveVoiceStage(stage string, d time.Duration) {
	m.VoiceStageDuration.WithLabelValues(stage).Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
