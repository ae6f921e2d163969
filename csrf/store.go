package csrf

import (
	"context"
	"time"
)

// Store binds CSRF tokens to the value carried by the client's cookie.
//
// Bind records tok for ttl and returns the cookie value that identifies the
// binding. Lookup resolves a cookie value back to its token and returns
// ErrTokenNotFound when the binding is unknown or expired.
type Store interface {
	Bind(ctx context.Context, tok string, ttl time.Duration) (string, error)
	Lookup(ctx context.Context, cookieValue string) (string, error)
}

// sessionIDBytes is the entropy of the opaque cookie value used by the
// server-side stores.
const sessionIDBytes = 32

func newSessionID() (string, error) {
	return newToken(sessionIDBytes)
}
