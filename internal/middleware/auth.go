// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"yamdb/internal/models"
	"yamdb/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// SessionGetter resolves a bearer token to its session.
type SessionGetter interface {
	Get(ctx context.Context, token string) (*session.Data, error)
}

// LoadSession resolves the bearer token from the Authorization header and
// stores the session in the request context. It does not enforce
// authentication: requests without a valid token continue anonymously.
func LoadSession(store SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			data, err := store.Get(r.Context(), token)
			if err != nil {
				slog.Warn("session lookup failed", "error", err,
					"request_id", RequestIDFromCtx(r.Context()))
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// UserFromCtx returns the authenticated requester, or nil when anonymous.
func UserFromCtx(ctx context.Context) *models.User {
	if data := SessionFromCtx(ctx); data != nil {
		return data.User()
	}
	return nil
}
