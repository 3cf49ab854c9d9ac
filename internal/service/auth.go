package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aiowing/aiowing/internal/auth"
	"github.com/aiowing/aiowing/internal/metrics"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/repository"
)

// ErrInvalidCredentials is the only error a failed login produces. The
// concrete reason is logged server-side and never shown to the client.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Login failure reasons, used in logs and metrics only.
const (
	ReasonMissingFields = "missing_fields"
	ReasonUnknownUser   = "unknown_user"
	ReasonLookupFailed  = "lookup_failed"
	ReasonInactiveUser  = "inactive_user"
	ReasonNotSuperuser  = "not_superuser"
	ReasonBadPassword   = "bad_password"
)

// UserFinder looks admin accounts up by email.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService checks admin credentials and resolves session users.
type AuthService struct {
	users   UserFinder
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserFinder, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{users: users, metrics: recorder, logger: logger}
}

// Authenticate returns the user when email exists, the account is active,
// the account is a superuser and the password matches. Every other
// outcome returns ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, s.reject(ctx, ReasonMissingFields)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		auth.BurnVerify(password)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, s.reject(ctx, ReasonUnknownUser)
		}
		s.logger.Error("user lookup failed during login", slog.String("error", err.Error()))
		return nil, s.reject(ctx, ReasonLookupFailed)
	}

	// Verify first so every branch below costs one hash.
	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	switch {
	case !user.Active:
		return nil, s.reject(ctx, ReasonInactiveUser)
	case !user.Superuser:
		return nil, s.reject(ctx, ReasonNotSuperuser)
	case !match:
		return nil, s.reject(ctx, ReasonBadPassword)
	}

	s.metrics.IncLoginSucceeded()
	s.logger.Info("admin login succeeded", slog.String("user_id", user.ID))
	return user, nil
}

// ResolveUser maps a session email to its user. It returns nil when the
// email is empty, unknown or the lookup fails.
func (s *AuthService) ResolveUser(ctx context.Context, email string) *model.User {
	if email == "" {
		return nil
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error("failed to resolve session user", slog.String("error", err.Error()))
		}
		return nil
	}
	return user
}

func (s *AuthService) reject(ctx context.Context, reason string) error {
	s.metrics.IncLoginFailed(reason)
	s.logger.WarnContext(ctx, "admin login failed", slog.String("reason", reason))
	return ErrInvalidCredentials
}
