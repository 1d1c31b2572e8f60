package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/storefront-cart/internal/session"
)

const SessionCookie = "cart_session"

type contextKey string

const (
	SessionContextKey contextKey = "session"
)

// ExtractToken extracts the session token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionMiddleware resolves the shopper session for every request. A request
// carrying no token, or an invalid or expired one, gets a fresh anonymous
// session minted and set as a cookie, so the storefront never rejects a
// shopper for lacking credentials.
func SessionMiddleware(tokens *session.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if tokenString := ExtractToken(r); tokenString != "" {
				if id, err := tokens.Validate(tokenString); err == nil {
					sessionID = id
				}
			}

			if sessionID == "" {
				id, tokenString, expiresAt, err := tokens.Issue()
				if err != nil {
					http.Error(w, "failed to create session", http.StatusInternalServerError)
					return
				}
				sessionID = id
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    tokenString,
					Path:     "/",
					Expires:  expiresAt,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID retrieves the shopper session ID from the request context
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionContextKey).(string)
	return sessionID
}
