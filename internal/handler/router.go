package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/web"
)

// RouterConfig carries what the router needs beyond the handler itself.
type RouterConfig struct {
	Sessions       middleware.SessionProvider
	SessionOptions middleware.SessionOptions
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the browser UI and the JSON API.
func NewRouter(h *PasswordHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Sessions, cfg.SessionOptions))
		r.Get("/", web.HandleIndex)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tips", h.HandleTips)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Post("/strength", h.HandleStrength)
		})

		r.Route("/session", func(r chi.Router) {
			r.Use(middleware.Session(cfg.Sessions, cfg.SessionOptions))

			r.Get("/", h.HandleState)
			r.Delete("/", h.HandleEndSession)
			r.Put("/policy", h.HandleSetPolicy)
			r.Put("/input", h.HandleInput)
			r.Post("/reset", h.HandleReset)
			r.Delete("/history", h.HandleClearHistory)
			r.Get("/history/export", h.HandleExportHistory)

			r.With(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).
				Post("/generate", h.HandleGenerate)
		})
	})

	return r
}
