package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aiowing/aiowing/internal/auth"
	"github.com/aiowing/aiowing/internal/model"
	"github.com/aiowing/aiowing/internal/view"
)

// Authenticator checks admin credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

// SessionManager starts and ends admin sessions.
type SessionManager interface {
	Start(ctx context.Context, email string) (string, error)
	ClearEmail(ctx context.Context, id string) error
	TTL() time.Duration
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// LoginHandler serves login and logout.
type LoginHandler struct {
	auth     Authenticator
	sessions SessionManager
	views    *view.Renderer
	cookie   CookieConfig
	logger   *slog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(authn Authenticator, sessions SessionManager, views *view.Renderer, cookie CookieConfig, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		auth:     authn,
		sessions: sessions,
		views:    views,
		cookie:   cookie,
		logger:   logger,
	}
}

// LoginPage handles GET /admin/login.
func (h *LoginHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeHTML(w)
	data := view.LoginData{CurrentUser: auth.UserFromContext(r.Context())}
	if err := h.views.Login(w, data); err != nil {
		h.logger.Error("failed to render login page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Login handles POST /admin/login. Every failure redirects back to the
// login page without saying why.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("unreadable login form", slog.String("error", err.Error()))
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	user, err := h.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	id, err := h.sessions.Start(r.Context(), user.Email)
	if err != nil {
		h.logger.Error("failed to start session",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	http.SetCookie(w, h.sessionCookie(id, int(h.sessions.TTL().Seconds())))
	http.Redirect(w, r, RecordsPath, http.StatusFound)
}

// Logout handles GET /admin/logout.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := auth.SessionIDFromContext(r.Context())
	if err := h.sessions.ClearEmail(r.Context(), id); err != nil {
		h.logger.Error("failed to clear session", slog.String("error", err.Error()))
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// sessionCookie builds the session cookie. A negative maxAge deletes it.
func (h *LoginHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/admin",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
