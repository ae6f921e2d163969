package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/JeanGrijp/dast-demo/csrf"
)

// WrapMiddleware adapts net/http middleware to gin. When the middleware
// answers on its own (a CSRF rejection, a CORS preflight) the chain is aborted.
func WrapMiddleware(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			// keep gin context in sync with possibly modified *http.Request
			c.Request = r
			c.Next()
		}))
		h.ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

// NewGinHandler mounts the routes enabled for variant on a gin engine.
// A nil c disables CORS.
func NewGinHandler(p *csrf.Protector, variant int, logger *slog.Logger, c *cors.Cors) http.Handler {
	r := gin.New()
	// exact paths only
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.HandleMethodNotAllowed = false

	r.Use(GinRequestLogger(logger))
	r.Use(gin.Recovery())
	if c != nil {
		r.Use(WrapMiddleware(c.Handler))
	}

	csrfMW := WrapMiddleware(p.Protect)
	for _, rt := range mount(p, variant) {
		if rt.CSRF {
			r.Handle(rt.Method, rt.Path, csrfMW, gin.WrapH(rt.handler))
			continue
		}
		r.Handle(rt.Method, rt.Path, gin.WrapH(rt.handler))
	}

	r.NoRoute(gin.WrapF(notFoundHandler))
	return r
}
