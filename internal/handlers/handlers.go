package handlers

import (
	"MediStock/internal/config"
	"MediStock/internal/middleware"
	"MediStock/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	documentService *service.DocumentService,
	logger *zap.SugaredLogger,
	config *config.Config,
	registry *prometheus.Registry,
) *Handler {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry)

	r := chi.NewRouter()

	r.Use(metrics.Handler)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(userService, logger, config)
	documentHandler := NewDocumentHandler(documentService, logger)

	// Auth routes
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/logout", authHandler.Logout)
	r.Get("/api/auth/me", authHandler.Me)

	// Document routes
	r.Route("/api/collections/{collection}", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/documents", documentHandler.Create)
		r.Patch("/documents/{id}", documentHandler.Merge)
		r.Delete("/documents/{id}", documentHandler.Delete)
		r.Post("/query", documentHandler.Query)
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{DisableCompression: true}))

	return &Handler{Router: r}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
