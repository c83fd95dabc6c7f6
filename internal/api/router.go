package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/prasetyo/sentra/internal/api/handlers"
	"github.com/prasetyo/sentra/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	pages *handlers.PageHandler,
	analysis *handlers.AnalysisHandler,
	importer *handlers.ImportHandler,
	hub *Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Dashboard pages
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/overview", http.StatusFound)
	}).Methods("GET")
	r.HandleFunc("/overview", pages.Overview).Methods("GET")
	r.HandleFunc("/insight", pages.Insight).Methods("GET")
	r.HandleFunc("/alerts", pages.Alerts).Methods("GET")
	r.HandleFunc("/workflow", pages.Workflow).Methods("GET")
	r.HandleFunc("/import", pages.ImportForm).Methods("GET")
	r.HandleFunc("/import", importer.Upload).Methods("POST")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/metrics", analysis.GetMetrics).Methods("GET")
	api.HandleFunc("/summary", analysis.GetSummary).Methods("GET")
	api.HandleFunc("/report", analysis.GetReport).Methods("GET")
	api.HandleFunc("/alerts", analysis.GetAlerts).Methods("GET")

	// Live metrics stream
	r.HandleFunc("/ws/metrics", hub.Serve).Methods("GET")

	// Unknown routes get the rendered error page, not the plain-text default
	r.NotFoundHandler = http.HandlerFunc(pages.NotFound)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "sentra-dashboard",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
