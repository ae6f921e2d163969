package csrf

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
)

// Reasons a request is rejected. FailureReason returns one of them.
var (
	ErrNoCookie      = errors.New("csrf: session cookie missing")
	ErrTokenNotFound = errors.New("csrf: no token bound to cookie")
	ErrTokenMissing  = errors.New("csrf: request carries no token")
	ErrTokenMismatch = errors.New("csrf: token mismatch")
	ErrBadOrigin     = errors.New("csrf: origin not allowed")
)

// Methods that require CSRF protection
var unsafeMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Protect wraps the given next http.Handler and enforces CSRF protection.
//
// Behavior:
//   - For "safe" methods (GET/HEAD/OPTIONS/TRACE): makes sure a token is bound
//     to the client's cookie, issuing one when needed, and injects it into the
//     request context, then calls next.
//   - For "unsafe" methods (POST/PUT/PATCH/DELETE): optionally validates
//     Origin/Referer, resolves the token bound to the cookie, extracts the
//     client token from header or form, compares both in constant time and
//     only then calls next. Nothing is issued on unsafe methods.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := p.cfg

		if !unsafeMethods[r.Method] {
			tok, err := p.ensureToken(w, r)
			if err != nil {
				http.Error(w, "failed to issue CSRF token", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithToken(r.Context(), tok)))
			return
		}

		if cfg.EnforceOriginCheck {
			if err := validateOriginOrReferer(r, cfg.AllowedOrigin); err != nil {
				p.fail(w, r, err)
				return
			}
		}

		bound, err := p.boundToken(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		clientToken := extractClientToken(r, cfg.HeaderName, cfg.FormField)
		if clientToken == "" {
			p.fail(w, r, ErrTokenMissing)
			return
		}

		if subtle.ConstantTimeCompare([]byte(clientToken), []byte(bound)) != 1 {
			p.fail(w, r, ErrTokenMismatch)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithToken(r.Context(), bound)))
	})
}

func (p *Protector) fail(w http.ResponseWriter, r *http.Request, reason error) {
	p.cfg.ErrorHandler.ServeHTTP(w, r.WithContext(contextWithReason(r.Context(), reason)))
}

// boundToken resolves the token bound to the request's cookie.
func (p *Protector) boundToken(r *http.Request) (string, error) {
	c, err := r.Cookie(p.cfg.CookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoCookie
	}
	tok, err := p.cfg.Store.Lookup(r.Context(), c.Value)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("csrf: lookup: %w", err)
	}
	return tok, nil
}

// ensureToken returns the token already bound to the request's cookie. When
// there is none (no cookie, unknown or expired binding) it generates a new
// token, binds it in the store and sets the cookie on the response.
func (p *Protector) ensureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	cfg := p.cfg

	tok, err := p.boundToken(r)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, ErrNoCookie) && !errors.Is(err, ErrTokenNotFound) {
		return "", err
	}

	tok, err = newToken(cfg.TokenBytes)
	if err != nil {
		return "", err
	}
	value, err := cfg.Store.Bind(r.Context(), tok, cfg.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("csrf: bind: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		SameSite: cfg.CookieSameSite,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
	})

	return tok, nil
}

// TokenFromContext returns the CSRF token stored in ctx, if present.
func TokenFromContext(ctx context.Context) (string, bool) {
	return tokenFromContext(ctx)
}

// FailureReason returns why Protect rejected r. It is meant to be called from
// a custom Config.ErrorHandler and returns nil outside of one.
func FailureReason(r *http.Request) error {
	return reasonFromContext(r.Context())
}

// TokenHandler returns an HTTP handler that writes the current CSRF token.
// This is useful for SPAs to fetch the token and attach it to subsequent requests.
func (p *Protector) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := TokenFromContext(r.Context()); ok {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.Write([]byte(tok))
			return
		}
		http.Error(w, "no token", http.StatusInternalServerError)
	})
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
}

// validateOriginOrReferer checks whether the request is same-site according to
// the allowed host policy. When allowed is empty, it falls back to r.Host.
// It prefers the Origin header; if empty, it falls back to Referer.
func validateOriginOrReferer(r *http.Request, allowed string) error {
	host := allowed
	if host == "" {
		host = r.Host
	}

	origin := r.Header.Get("Origin")
	ref := r.Header.Get("Referer")

	if origin == "" && ref == "" {
		return fmt.Errorf("%w: no origin/referer", ErrBadOrigin)
	}
	if origin != "" && !sameSite(origin, host) {
		return fmt.Errorf("%w: bad origin %q", ErrBadOrigin, origin)
	}
	if origin == "" && !sameSite(ref, host) {
		return fmt.Errorf("%w: bad referer %q", ErrBadOrigin, ref)
	}
	return nil
}
