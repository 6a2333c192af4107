// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Reads the access token from a cookie or Authorization header

package auth

import (
	"net/http"
	"strings"

	"github.com/tubecast/tubecast/internal/store"
)

// AccessCookieName is the cookie the access token is read from when no
// Authorization header is present.
const AccessCookieName = "access_token"

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// extractAccessToken pulls the access token from the request, preferring the
// cookie and falling back to a bearer Authorization header. Returns the token
// and an error message (empty if successful).
func extractAccessToken(r *http.Request) (string, string) {
	if c, err := r.Cookie(AccessCookieName); err == nil && c.Value != "" {
		return c.Value, ""
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "missing access token"
	}
	const prefix = "bearer "
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", "invalid authorization header format"
	}
	token := strings.TrimSpace(authHeader[len(prefix):])
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that validates the access token and
// attaches the authenticated user's Identity to the request context. Requests
// without a valid token are rejected with 401; the wrapped handler never runs
// for them.
func Middleware(authn *Authenticator, users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractAccessToken(r)
			if errMsg != "" {
				http.Error(w, `{"error":"`+errMsg+`"}`, http.StatusUnauthorized)
				return
			}

			userID, err := authn.VerifyAccess(token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
				return
			}

			id := &Identity{User: user.Sanitized()}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalMiddleware attempts token auth but lets unauthenticated requests
// through with no Identity attached. Used for public endpoints that behave
// differently for signed-in viewers.
func OptionalMiddleware(authn *Authenticator, users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractAccessToken(r)
			if errMsg != "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authn.VerifyAccess(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id := &Identity{User: user.Sanitized()}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
