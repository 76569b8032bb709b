package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics holds the API server registry: generic HTTP metrics plus the
// chat pipeline counters.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	chatAnswersTotal  *prometheus.CounterVec
	chatTierTotal     *prometheus.CounterVec
	chatFallbackTotal prometheus.Counter
	chatSources       prometheus.Histogram
	chatDuration      prometheus.Histogram
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": service}

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "askai",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: labels,
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "askai",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		},
		[]string{"method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "askai",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: labels,
		},
	)
	chatAnswersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "askai",
			Subsystem:   "chat",
			Name:        "answers_total",
			Help:        "Total chat answers by provenance.",
			ConstLabels: labels,
		},
		[]string{"source_type"},
	)
	chatTierTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "askai",
			Subsystem:   "chat",
			Name:        "retrieval_tier_total",
			Help:        "Total database answers by contributing retrieval tier.",
			ConstLabels: labels,
		},
		[]string{"tier"},
	)
	chatFallbackTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "askai",
			Subsystem:   "chat",
			Name:        "fallback_total",
			Help:        "Total answers produced by the ungrounded fallback synthesizer.",
			ConstLabels: labels,
		},
	)
	chatSources := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "askai",
			Subsystem:   "chat",
			Name:        "cited_sources",
			Help:        "Distribution of cited sources per answered chat.",
			Buckets:     []float64{0, 1, 2, 3, 5, 8},
			ConstLabels: labels,
		},
	)
	chatDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "askai",
			Subsystem:   "chat",
			Name:        "duration_seconds",
			Help:        "End-to-end chat pipeline duration in seconds.",
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			ConstLabels: labels,
		},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		chatAnswersTotal, chatTierTotal, chatFallbackTotal, chatSources, chatDuration,
	)

	return &ServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		chatAnswersTotal:  chatAnswersTotal,
		chatTierTotal:     chatTierTotal,
		chatFallbackTotal: chatFallbackTotal,
		chatSources:       chatSources,
		chatDuration:      chatDuration,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *ServerMetrics) RequestStarted() { m.requestInFlight.Inc() }

func (m *ServerMetrics) RequestFinished() { m.requestInFlight.Dec() }

// ObserveChat records one completed pipeline run.
func (m *ServerMetrics) ObserveChat(sourceType, tier string, sources int, elapsed time.Duration) {
	m.chatAnswersTotal.WithLabelValues(sourceType).Inc()
	if sourceType == "database" && tier != "" {
		m.chatTierTotal.WithLabelValues(tier).Inc()
	}
	if sourceType == "ai_knowledge" {
		m.chatFallbackTotal.Inc()
	}
	m.chatSources.Observe(float64(sources))
	m.chatDuration.Observe(elapsed.Seconds())
}
