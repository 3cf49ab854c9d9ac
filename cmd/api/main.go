// Package main is the entrypoint for the aiowing admin server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/aiowing/aiowing/internal/cache"
	"github.com/aiowing/aiowing/internal/config"
	"github.com/aiowing/aiowing/internal/handler"
	"github.com/aiowing/aiowing/internal/metrics"
	"github.com/aiowing/aiowing/internal/middleware"
	"github.com/aiowing/aiowing/internal/repository"
	"github.com/aiowing/aiowing/internal/server"
	"github.com/aiowing/aiowing/internal/service"
	"github.com/aiowing/aiowing/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	views, err := view.New()
	if err != nil {
		logger.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg, logger); err != nil {
			logger.Error("failed to migrate database", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewInMemory()
	sessions := cache.NewSessionStore(cacheClient, cfg.SessionTTL)
	authService := service.NewAuthService(repo, recorder, logger)
	recordService := service.NewRecordService(repo, cfg.RecordsPerPage, recorder, logger)

	router := server.NewRouter(server.Routes{
		Logger: logger,
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		Session: middleware.SessionConfig{
			Logger:     logger,
			Sessions:   sessions,
			Users:      authService,
			CookieName: cfg.SessionCookieName,
		},
		Login: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: cacheClient,
			Metrics: recorder,
			Enabled: cfg.LoginRateLimitEnabled,
			RPS:     cfg.LoginRateLimitRPS,
			Burst:   cfg.LoginRateLimitBurst,
		},
		Verbose: cfg.IsDevelopment(),
		Base:    handler.New(logger),
		Health:  handler.NewHealthHandler(repo, cacheClient),
		Metrics: handler.NewMetricsHandler(recorder),
		Auth: handler.NewLoginHandler(authService, sessions, views, handler.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: cfg.SecureCookies(),
		}, logger),
		Records: handler.NewRecordsHandler(recordService, views, logger),
		Static:  http.FS(view.StaticFS()),
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: Redis closes before the database pool.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"records_per_page", cfg.RecordsPerPage,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// migrate applies the embedded migrations over a short-lived connection.
func migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	m, err := repository.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With(slog.String("service", "aiowing-admin"))
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
