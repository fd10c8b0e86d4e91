package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/agrismart/platform/backend/internal/api/handlers"
	"github.com/agrismart/platform/backend/internal/api/middleware"
	"github.com/agrismart/platform/backend/internal/infrastructure/observability"
)

// ReadinessCheck probes one downstream dependency.
type ReadinessCheck func(ctx context.Context) error

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	analysisHandler       *handlers.AnalysisHandler
	recommendationHandler *handlers.RecommendationHandler

	readinessChecks map[string]ReadinessCheck
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	analysisHandler *handlers.AnalysisHandler,
	recommendationHandler *handlers.RecommendationHandler,
	readinessChecks map[string]ReadinessCheck,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		analysisHandler:       analysisHandler,
		recommendationHandler: recommendationHandler,
		readinessChecks:       readinessChecks,
		metrics:               metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Readiness probes every registered dependency
	r.mux.HandleFunc("GET /ready", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		for name, check := range r.readinessChecks {
			if err := check(ctx); err != nil {
				http.Error(w, name+" not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	// Analysis endpoints
	r.mux.HandleFunc("POST /api/analyze", r.analysisHandler.Analyze)
	r.mux.HandleFunc("GET /api/history", r.analysisHandler.History)
	r.mux.HandleFunc("GET /api/history/{id}", r.analysisHandler.HistoryDetail)

	// Recommendation endpoints
	r.mux.HandleFunc("GET /api/recommendations", r.recommendationHandler.Recommend)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
