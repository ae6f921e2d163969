// Package csrf provides CSRF protection for Go net/http servers by binding a
// random token to a client cookie and requiring it back on every unsafe
// request.
//
// How it works
//   - Safe methods (GET, HEAD, OPTIONS, TRACE): look up the token bound to the
//     client's cookie, or issue one and set the cookie, then inject the token
//     into the request context so handlers can render it via TokenFromContext.
//   - Unsafe methods (POST, PUT, PATCH, DELETE): optionally enforce same-site
//     policy using Origin/Referer (when EnforceOriginCheck is enabled), then
//     require the client-provided token (header or form field) to match the
//     token bound to the cookie. Comparison is done in constant time. The
//     token stays valid after a successful check.
//
// # Stores
//
// A Store maps the cookie value to its token:
//   - MemoryStore: in-process map keyed by an opaque session id.
//   - RedisStore: same keys kept in Redis with a TTL, shared across instances.
//   - SignedStore: stateless, the cookie is an HS256 JWT carrying the token.
//
// # Configuration
//
// All behavior is driven by Config. Key fields include:
//   - CookieName (default: "csrf_session"), CookiePath, CookieDomain,
//     CookieSecure, CookieSameSite (default: Strict)
//   - TokenTTL (default: 1h), used as binding TTL and cookie Max-Age
//   - HeaderName (default: "X-CSRF-Token")
//   - FormField (default: "_csrf")
//   - EnforceOriginCheck and AllowedOrigin (empty means use the request host)
//   - TokenBytes (default: 32)
//   - Store (default: a new MemoryStore) and ErrorHandler (default: 403)
//
// Typical usage
//
//	p := csrf.New(csrf.Config{Store: csrf.NewRedisStore(rdb, "")})
//	protected := p.Protect(formMux)
//
// In handlers, read the token from context to embed it in the form:
//
//	if tok, ok := csrf.TokenFromContext(r.Context()); ok {
//	    // <input type="hidden" name="_csrf" value="tok">
//	}
package csrf
