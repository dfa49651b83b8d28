package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/supportdesk/backend/internal/setup"
	mw "github.com/itchan-dev/supportdesk/shared/middleware"
	"github.com/itchan-dev/supportdesk/shared/middleware/metrics"
)

// backend CSP: JSON API only, no scripts or styles
const proxyCSP = "default-src 'none'; frame-ancestors 'none'"

// New creates the upload proxy router.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.Proxy.HTTPS, proxyCSP))

	// the form is served from arbitrary origins; preflight reaches the
	// handler, which owns the Allow-Methods/Allow-Headers answer
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	// method checks live in the handler so 405 carries a JSON body
	r.HandleFunc("/upload", h.Upload)
	r.HandleFunc("/api/upload", h.Upload)

	return r
}
