package csrf

import "context"

type ctxKey string

const (
	tokenKey  ctxKey = "csrf_token_ctx"
	reasonKey ctxKey = "csrf_reason_ctx"
)

// contextWithToken returns a derived context that stores the given CSRF token.
func contextWithToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, tokenKey, tok)
}

// tokenFromContext extracts the CSRF token from ctx, if present.
func tokenFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(tokenKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func contextWithReason(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, reasonKey, err)
}

func reasonFromContext(ctx context.Context) error {
	err, _ := ctx.Value(reasonKey).(error)
	return err
}
