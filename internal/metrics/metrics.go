package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixora_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fixora_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// QuotaDecisionsTotal counts gate outcomes: allowed, denied or fail_open.
	QuotaDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixora_quota_decisions_total",
			Help: "Total number of usage gate decisions.",
		},
		[]string{"decision"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fixora_llm_request_duration_seconds",
			Help:    "LLM completion latency in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "outcome"},
	)

	LLMFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixora_llm_fallbacks_total",
			Help: "Total number of LLM replies replaced by a fallback result.",
		},
		[]string{"kind"},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixora_uploads_total",
			Help: "Total number of resume uploads by detected type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	PDFRendersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fixora_pdf_renders_active",
			Help: "Number of headless Chrome renders currently running.",
		},
	)

	PDFRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fixora_pdf_render_duration_seconds",
			Help:    "Report PDF rendering latency in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		QuotaDecisionsTotal,
		LLMRequestDuration,
		LLMFallbacksTotal,
		UploadsTotal,
		PDFRenderDuration,
		PDFRendersActive,
	)
}
