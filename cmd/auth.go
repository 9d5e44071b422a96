package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/International-Combat-Archery-Alliance/auth"
	"github.com/growix/seminar-registration/api"
)

const adminDomain = "growix.lt"

func createAuthValidator(logger *slog.Logger, env api.Environment) auth.Validator {
	if env == api.LOCAL {
		return &localAuthValidator{logger: logger}
	}

	return &googleTokenValidator{httpClient: &http.Client{Timeout: 5 * time.Second}}
}

var _ auth.Validator = &localAuthValidator{}

// localAuthValidator treats the raw token as the user's email so local
// frontends can log in as anyone. Never used outside LOCAL.
type localAuthValidator struct {
	logger *slog.Logger
}

var _ auth.AuthToken = &staticAuthToken{}

type staticAuthToken struct {
	email   string
	isAdmin bool
}

func (t *staticAuthToken) ExpiresAt() time.Time  { return time.Now().Add(time.Hour) }
func (t *staticAuthToken) ProfilePicURL() string { return "" }
func (t *staticAuthToken) IsAdmin() bool         { return t.isAdmin }
func (t *staticAuthToken) UserEmail() string     { return t.email }
func (t *staticAuthToken) Roles() []auth.Role    { return nil }

func (v *localAuthValidator) Validate(ctx context.Context, token string, clientID string) (auth.AuthToken, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	v.logger.Warn("using local auth, token is trusted as the user email", slog.String("email", token))

	return &staticAuthToken{email: token}, nil
}

var _ auth.Validator = &googleTokenValidator{}

// googleTokenValidator checks Google ID tokens against the tokeninfo
// endpoint, which verifies the signature and expiry server side.
type googleTokenValidator struct {
	httpClient *http.Client
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Exp           string `json:"exp"`
	HostedDomain  string `json:"hd"`
	Picture       string `json:"picture"`
}

var _ auth.AuthToken = &googleAuthToken{}

type googleAuthToken struct {
	info      googleTokenInfo
	expiresAt time.Time
}

func (t *googleAuthToken) ExpiresAt() time.Time  { return t.expiresAt }
func (t *googleAuthToken) ProfilePicURL() string { return t.info.Picture }
func (t *googleAuthToken) IsAdmin() bool         { return t.info.HostedDomain == adminDomain }
func (t *googleAuthToken) UserEmail() string     { return t.info.Email }

// Google ID tokens carry no role claims; admin rights come from the hosted
// domain check above.
func (t *googleAuthToken) Roles() []auth.Role { return nil }

func (v *googleTokenValidator) Validate(ctx context.Context, token string, clientID string) (auth.AuthToken, error) {
	endpoint := "https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token rejected by tokeninfo, status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if info.Aud != clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("email on token is not verified")
	}

	expUnix, err := strconv.ParseInt(info.Exp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed exp on token: %w", err)
	}
	expiresAt := time.Unix(expUnix, 0)
	if time.Now().After(expiresAt) {
		return nil, fmt.Errorf("token is expired")
	}

	return &googleAuthToken{info: info, expiresAt: expiresAt}, nil
}
