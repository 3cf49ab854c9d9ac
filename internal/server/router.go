package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aiowing/aiowing/internal/handler"
	"github.com/aiowing/aiowing/internal/middleware"
)

// Routes collects what the admin router serves.
type Routes struct {
	Logger   *slog.Logger
	Security middleware.SecurityConfig
	Session  middleware.SessionConfig
	Login    middleware.RateLimitConfig
	Verbose  bool

	Base    *handler.Handler
	Health  *handler.HealthHandler
	Metrics *handler.MetricsHandler
	Auth    *handler.LoginHandler
	Records *handler.RecordsHandler
	Static  http.FileSystem
}

// NewRouter builds the chi router with middleware and every route.
func NewRouter(rt Routes) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(rt.Logger))
	r.Use(middleware.Recoverer(rt.Logger, rt.Verbose))
	r.Use(middleware.Security(rt.Security))
	r.Use(middleware.MaxBodySize(rt.Security.MaxRequestBodySize))

	r.Get("/healthz", rt.Health.Healthz)
	r.Get("/readyz", rt.Health.Readyz)
	r.Get("/metrics", rt.Metrics.Metrics)
	r.Get("/", rt.Base.Index)

	if rt.Static != nil {
		files := http.StripPrefix(handler.StaticPath+"/", http.FileServer(rt.Static))
		r.Get(handler.StaticPath+"/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			files.ServeHTTP(w, r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.CurrentUser(rt.Session))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Unauthenticated(handler.RecordsPath))
			r.Get(handler.LoginPath, rt.Auth.LoginPage)
			r.With(middleware.RateLimitLogin(rt.Login)).Post(handler.LoginPath, rt.Auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticated(handler.LoginPath))
			r.Get(handler.LogoutPath, rt.Auth.Logout)
			r.Get(handler.RecordsPath, rt.Records.RecordsPage)
			r.Post(handler.RecordsPath, rt.Records.RecordsCommand)
		})
	})

	r.NotFound(rt.Base.NotFound)
	r.MethodNotAllowed(rt.Base.MethodNotAllowed)

	return r
}
