package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/JeanGrijp/dast-demo/csrf"
)

// NewChiHandler mounts the routes enabled for variant on a chi router.
// A nil c disables CORS.
func NewChiHandler(p *csrf.Protector, variant int, logger *slog.Logger, c *cors.Cors) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if c != nil {
		r.Use(c.Handler)
	}

	protected := r.With(p.Protect)
	for _, rt := range mount(p, variant) {
		if rt.CSRF {
			protected.Method(rt.Method, rt.Path, rt.handler)
			continue
		}
		r.Method(rt.Method, rt.Path, rt.handler)
	}

	// unknown method on a known path is a 404 too
	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(notFoundHandler)
	return r
}
