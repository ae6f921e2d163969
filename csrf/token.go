package csrf

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
)

// Gera token aleatório url-safe
func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// base64 URL-encoding sem padding
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func extractClientToken(r *http.Request, headerName, formField string) string {
	// Header vence
	if h := r.Header.Get(headerName); h != "" {
		return h
	}
	// A malformed body leaves the form empty, which reads as a missing token.
	_ = r.ParseForm()
	return r.PostForm.Get(formField)
}

// Verifica se a origem informada é "same-site" do host permitido.
func sameSite(originOrRef, allowedHost string) bool {
	u, err := url.Parse(originOrRef)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, allowedHost)
}
