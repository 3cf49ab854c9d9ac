package auth

import (
	"context"

	"github.com/aiowing/aiowing/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// currentUserKey is the context key for the signed-in admin.
	currentUserKey contextKey = "current_user"
	// sessionIDKey is the context key for the raw session token.
	sessionIDKey contextKey = "session_id"
)

// ContextWithUser adds the resolved current user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// UserFromContext retrieves the current user from the context.
// Returns nil if nobody is signed in.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(currentUserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// ContextWithSessionID stores the session token read from the cookie.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns the session token, or "" when the request
// carried no session cookie.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
