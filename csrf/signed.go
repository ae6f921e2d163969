package csrf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrShortKey is returned by NewSignedStore for keys under 32 bytes.
var ErrShortKey = errors.New("csrf: signing key must be at least 32 bytes")

type tokenClaims struct {
	CSRF string `json:"csrf"`
	jwt.RegisteredClaims
}

// SignedStore keeps no server state: the cookie value is an HS256 JWT that
// carries the token and its expiry.
type SignedStore struct {
	key []byte
	now func() time.Time
}

func NewSignedStore(key []byte) (*SignedStore, error) {
	if len(key) < 32 {
		return nil, ErrShortKey
	}
	return &SignedStore{key: key, now: time.Now}, nil
}

func (s *SignedStore) Bind(_ context.Context, tok string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		CSRF: tok,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return signed, nil
}

func (s *SignedStore) Lookup(_ context.Context, value string) (string, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.CSRF == "" {
		// forged, tampered and expired cookies all read as "no binding"
		return "", ErrTokenNotFound
	}
	return claims.CSRF, nil
}
