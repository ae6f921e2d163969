package csrf

import (
	"net/http"
	"time"
)

type Config struct {
	// Cookie
	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite
	TokenTTL       time.Duration // also the cookie Max-Age

	// Token transport
	HeaderName string // e.g.: "X-CSRF-Token"
	FormField  string // e.g.: "_csrf"

	// Extra security
	EnforceOriginCheck bool
	AllowedOrigin      string // if empty, uses r.Host

	// Entropy
	TokenBytes int

	// Store binds tokens to the cookie value. Defaults to a MemoryStore.
	Store Store

	// ErrorHandler answers rejected requests. FailureReason(r) reports why.
	ErrorHandler http.Handler
}

type Protector struct {
	cfg Config
}

func New(cfg Config) *Protector {
	// reasonable defaults
	if cfg.CookieName == "" {
		cfg.CookieName = "csrf_session"
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.FormField == "" {
		cfg.FormField = "_csrf"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	if cfg.TokenBytes <= 0 {
		cfg.TokenBytes = 32
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	// the cookie only identifies the binding, it never needs to travel cross-site
	if cfg.CookieSameSite == 0 {
		cfg.CookieSameSite = http.SameSiteStrictMode
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = http.HandlerFunc(defaultErrorHandler)
	}
	return &Protector{cfg: cfg}
}

// FormField reports the form field name the protector reads the token from.
func (p *Protector) FormField() string { return p.cfg.FormField }

// Store returns the token store backing the protector.
func (p *Protector) Store() Store { return p.cfg.Store }
