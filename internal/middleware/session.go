package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aiowing/aiowing/internal/auth"
	"github.com/aiowing/aiowing/internal/model"
)

// SessionReader returns the email bound to a session token.
type SessionReader interface {
	Email(ctx context.Context, id string) (string, error)
}

// UserResolver maps a session email to an admin user.
type UserResolver interface {
	ResolveUser(ctx context.Context, email string) *model.User
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger
	Sessions   SessionReader
	Users      UserResolver
	CookieName string
}

// CurrentUser returns a middleware that resolves the signed-in user from
// the session cookie and stores it, with the session token, in the
// request context. A missing cookie, an unknown session or a deleted user
// all leave the request anonymous.
func CurrentUser(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithSessionID(r.Context(), cookie.Value)

			email, err := cfg.Sessions.Email(ctx, cookie.Value)
			if err != nil {
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(ctx)),
				)
			}

			if user := cfg.Users.ResolveUser(ctx, email); user != nil {
				ctx = auth.ContextWithUser(ctx, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Unauthenticated lets anonymous requests through and redirects signed-in
// users to redirectTo.
func Unauthenticated(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) != nil {
				http.Redirect(w, r, redirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticated lets signed-in users through and redirects anonymous
// requests to redirectTo.
func Authenticated(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) == nil {
				http.Redirect(w, r, redirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
