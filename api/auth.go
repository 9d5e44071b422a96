package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/International-Combat-Archery-Alliance/auth"
)

const (
	authJWTCookieKey = "GOOGLE_AUTH_JWT"
)

// authenticate resolves the caller's identity from the bearer token or the
// auth cookie. The token's email is the identity registrations are keyed by.
func (a *API) authenticate(r *http.Request) (auth.AuthToken, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, fmt.Errorf("no credentials on request")
	}

	authToken, err := a.authValidator.Validate(r.Context(), token, googleAudience)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	return authToken, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}

	cookie, err := r.Cookie(authJWTCookieKey)
	if err != nil {
		return ""
	}
	return cookie.Value
}
