package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/airport-readiness/internal/config"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// Router is the HTTP router
type Router struct {
	handler    *Handler
	middleware *Middleware
	metrics    http.Handler
	logger     *logger.Logger
}

// NewRouter creates a new router
func NewRouter(svc Services, authConfig config.AuthConfig, logger *logger.Logger) (*Router, error) {
	pages, err := NewPages()
	if err != nil {
		return nil, err
	}

	sessions := NewSessions(authConfig.SessionSecret, authConfig.SessionMaxAgeSeconds, authConfig.SecureCookies)

	var metricsHandler http.Handler = http.NotFoundHandler()
	if svc.Metrics != nil {
		metricsHandler = svc.Metrics.Handler()
	}

	return &Router{
		handler:    NewHandler(svc, sessions, pages, logger),
		middleware: NewMiddleware(sessions, logger),
		metrics:    metricsHandler,
		logger:     logger.Named("api-router"),
	}, nil
}

// Routes returns the HTTP routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)

	// Public routes
	router.Get("/login", r.handler.LoginForm)
	router.Post("/login", r.handler.Login)
	router.Get("/logout", r.handler.Logout)
	router.Get("/health", r.handler.GetHealth)

	// Everything else requires a logged-in session
	router.Group(func(router chi.Router) {
		router.Use(r.middleware.RequireLogin)

		router.Get("/", r.handler.InputForm)
		router.Post("/", r.handler.SaveInput)
		router.Get("/check", r.handler.CheckForm)
		router.Post("/check", r.handler.RunCheck)
		router.Post("/export", r.handler.Export)
		router.Handle("/metrics", r.metrics)

		router.Route("/api/v1", func(router chi.Router) {
			router.Get("/airports", r.handler.GetAllAirports)
			router.Get("/airports/{code}", r.handler.GetAirport)
		})
	})

	router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if !r.handler.sessions.IsAuthenticated(req) {
			http.Redirect(w, req, "/login", http.StatusFound)
			return
		}
		http.NotFound(w, req)
	})

	return router
}
