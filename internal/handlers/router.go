package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prudhvinik1/presence/internal/services"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Logger         zerolog.Logger
	Verifier       services.TokenVerifier
	Presence       PresenceService
	AllowedOrigins []string
}

// NewRouter builds the HTTP surface: health check plus the authenticated presence API.
func NewRouter(cfg RouterConfig) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(withLogger(cfg.Logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(withCORS(cfg.AllowedOrigins))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	router.Group(func(r chi.Router) {
		r.Use(Authenticate(cfg.Verifier))
		RegisterPresenceRoutes(r, cfg.Presence)
	})

	return router
}

func withCORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}
