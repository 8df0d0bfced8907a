package routes

import (
	"net/http"

	"github.com/pathwaysai/patient-copilot/internal/api/handlers"
	"github.com/pathwaysai/patient-copilot/internal/api/middleware"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	intakeHandler  *handlers.IntakeHandler
	catalogHandler *handlers.CatalogHandler
	userHandler    *handlers.UserHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	intakeHandler *handlers.IntakeHandler,
	catalogHandler *handlers.CatalogHandler,
	userHandler *handlers.UserHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		intakeHandler:   intakeHandler,
		catalogHandler:  catalogHandler,
		userHandler:     userHandler,
		cacheMiddleware: cacheMiddleware,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
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

	// Voice intake endpoints
	r.mux.HandleFunc("POST /api/voice/upload-audio", r.intakeHandler.UploadAudio)
	r.mux.HandleFunc("POST /api/voice/process-text", r.intakeHandler.ProcessText)
	r.mux.HandleFunc("GET /api/voice/health", r.intakeHandler.VoiceHealth)

	// Structured matching endpoint
	r.mux.HandleFunc("POST /api/match", r.intakeHandler.MatchProviders)

	// Symptoms intake acknowledgment
	r.mux.HandleFunc("POST /api/symptoms", r.intakeHandler.SubmitSymptoms)

	// Catalog read endpoints
	r.mux.HandleFunc("GET /api/specialties", r.catalogHandler.ListSpecialties)
	r.mux.HandleFunc("GET /api/insurances", r.catalogHandler.ListInsurances)
	r.mux.HandleFunc("GET /api/providers/search", r.catalogHandler.SearchProviders)
	r.mux.HandleFunc("POST /api/catalog/invalidate", r.catalogHandler.InvalidateCatalog)

	// User and reminder endpoints
	if r.userHandler != nil {
		r.mux.HandleFunc("POST /api/users", r.userHandler.CreateUser)
		r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.GetUser)
		r.mux.HandleFunc("POST /api/users/{id}/reminders", r.userHandler.CreateReminder)
		r.mux.HandleFunc("GET /api/users/{id}/reminders", r.userHandler.ListReminders)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.CacheControl(middleware.Compression(handler))

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
