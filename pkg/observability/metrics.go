// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring aicogchat and its mock backend.
package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cogpy/aicogchat/pkg/api"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ProviderRequestsTotal counts requests sent to backend providers by
	// outcome ("ok", "partial" or the error type).
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aicogchat_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records backend provider latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aicogchat_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens processed by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aicogchat_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// StreamFragmentsTotal counts decoded stream output by kind (text/tool_call).
	StreamFragmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aicogchat_stream_fragments_total",
			Help: "Stream fragments",
		},
		[]string{"provider", "kind"},
	)

	// EmbeddingCacheTotal counts embedding cache lookups by result (hit/miss/error).
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aicogchat_embedding_cache_total",
			Help: "Embedding cache lookups",
		},
		[]string{"result"},
	)

	// BackendRequestsTotal counts requests served by the mock backend by
	// method, path and status class.
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aicogchat_backend_requests_total",
			Help: "Backend requests served",
		},
		[]string{"method", "path", "status"},
	)

	// BackendRequestDuration records mock backend request duration in seconds.
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aicogchat_backend_request_duration_seconds",
			Help:    "Backend request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// BackendStreamsActive tracks SSE responses in flight on the mock backend.
	BackendStreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aicogchat_backend_streams_active",
			Help: "Active streaming responses",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		StreamFragmentsTotal,
		EmbeddingCacheTotal,
		BackendRequestsTotal,
		BackendRequestDuration,
		BackendStreamsActive,
	)
}

// StatusLabel returns the status label for a provider request outcome:
// "ok" for nil, the APIError type for classified errors, "error" otherwise.
func StatusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Type)
	}
	return "error"
}

// WriteTextfile writes all metrics of the default registry to path in the
// text exposition format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
