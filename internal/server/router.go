package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixora-ai/fixora/internal/api"
	mw "github.com/fixora-ai/fixora/internal/middleware"
)

// jsonBodyLimit caps JSON request bodies.
const jsonBodyLimit = 10 << 20

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	Analyze      http.HandlerFunc
	ImproveEmail http.HandlerFunc
	Upload       http.HandlerFunc
	ExportPDF    http.HandlerFunc
	UsageStatus  http.HandlerFunc

	// UsageGate wraps the billable routes.
	UsageGate func(http.Handler) http.Handler
}

// Readiness reports on dependencies for /health/ready. Nil checks are reported as not configured.
type Readiness struct {
	Quota  func(ctx context.Context) error
	Events func() bool
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	StrictTransport    bool
	LLMConfigured      bool
}

type healthResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	OpenAIConfigured bool   `json:"openaiConfigured"`
}

func NewRouter(cfg RouterConfig, ready Readiness, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders(cfg.StrictTransport))
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.HandleError(w, api.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.HandleError(w, api.ErrMethodNotAllow)
	})

	// Readiness probe: checks the quota store and NATS
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status": "healthy",
			"quota":  "healthy",
			"events": "healthy",
		}
		status := http.StatusOK

		if ready.Quota == nil {
			health["quota"] = "not configured"
		} else if err := ready.Quota(r.Context()); err != nil {
			health["quota"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if ready.Events == nil {
			health["events"] = "not configured"
		} else if !ready.Events() {
			health["events"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		api.Write(w, status, health)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			api.Write(w, http.StatusOK, healthResponse{
				Status:           "OK",
				Message:          "Server is running",
				OpenAIConfigured: cfg.LLMConfigured,
			})
		})
		r.Get("/usage", h.UsageStatus)

		// Upload enforces its own multipart size limit.
		r.Post("/upload", h.Upload)

		r.Group(func(r chi.Router) {
			r.Use(mw.BodyLimit(jsonBodyLimit))
			r.Post("/export-pdf", h.ExportPDF)

			// Billable routes: the gate runs before request validation.
			r.Group(func(r chi.Router) {
				if h.UsageGate != nil {
					r.Use(h.UsageGate)
				}
				r.Post("/analyze", h.Analyze)
				r.Post("/improve-email", h.ImproveEmail)
			})
		})
	})

	return r
}
