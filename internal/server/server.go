// Package server provides the HTTP server setup for Kindred.
package server

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kindredlabs/kindred/internal/api"
	"github.com/kindredlabs/kindred/internal/config"
	"github.com/kindredlabs/kindred/internal/embeddings"
	"github.com/kindredlabs/kindred/internal/events"
	"github.com/kindredlabs/kindred/internal/middleware"
	"github.com/kindredlabs/kindred/internal/store"
)

// Server holds all dependencies for the Kindred HTTP server.
type Server struct {
	Router *chi.Mux
	Config *config.Config
	Qdrant *store.Client
	Events *events.Client
	Logger *slog.Logger
}

// New creates a new Server with all routes configured.
func New(cfg *config.Config, qdrant *store.Client, users *store.UserStore, embedder embeddings.Provider, eventsClient *events.Client, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	// FastAPI-style routes carry trailing slashes; accept both forms.
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.RequestLogging(logger))

	// Publisher (nil if NATS not available)
	var publisher *events.Publisher
	if eventsClient != nil {
		publisher = events.NewPublisher(eventsClient, logger)
	}

	// Handlers
	healthHandler := api.NewHealthHandler(qdrant, users, eventsClient)
	userHandler := api.NewUserHandler(users, embedder, publisher, logger)

	userRL := middleware.NewRateLimiter(cfg.UserRateLimit, cfg.RateWindow)

	// Routes
	r.Get("/health", healthHandler.Health)

	r.Route("/users", func(r chi.Router) {
		r.Use(userRL.Middleware)
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Post("/find-similar", userHandler.FindSimilar)
		r.Get("/{user_id}", userHandler.Get)
	})

	return &Server{
		Router: r,
		Config: cfg,
		Qdrant: qdrant,
		Events: eventsClient,
		Logger: logger,
	}
}
