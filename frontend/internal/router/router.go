package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/supportdesk/frontend/internal/setup"
	mw "github.com/itchan-dev/supportdesk/shared/middleware"
	"github.com/itchan-dev/supportdesk/shared/middleware/metrics"
)

// JSON only; the widget page embedding it is served elsewhere
const webCSP = "default-src 'none'; frame-ancestors 'none'"

// New creates the browser-facing router. Every API route is also served
// under a language prefix, e.g. /sv/api/submit.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.Web.HTTPS, webCSP))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Accept-Language"},
		MaxAge:         300,
	}))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	routes := func(r chi.Router) {
		r.Post("/submit", h.Submit)
		r.Post("/chat/session", h.StartChat)
		r.Post("/chat", h.SendChat)
	}
	r.Route("/api", routes)
	r.Route("/{lang}/api", routes)

	return r
}
