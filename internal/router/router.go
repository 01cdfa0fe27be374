package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/cyberaware-lambda/internal/auth"
	"github.com/saulo-duarte/cyberaware-lambda/internal/certificate"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/module"
	"github.com/saulo-duarte/cyberaware-lambda/internal/quiz"
	"github.com/saulo-duarte/cyberaware-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler        *user.Handler
	ModuleHandler      *module.Handler
	QuizHandler        *quiz.Handler
	CertificateHandler *certificate.Handler
	AllowedOrigins     []string
	// Ping reports whether the database is reachable. Nil skips the check.
	Ping func(ctx context.Context) error
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthz(cfg.Ping))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/logout", auth.NewHandler().Logout)

		user.Routes(r, cfg.UserHandler)
		module.Routes(r, cfg.ModuleHandler)
		quiz.Routes(r, cfg.QuizHandler)
		certificate.Routes(r, cfg.CertificateHandler)
	})
	return r
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				config.WithContext(r.Context()).WithError(err).Warn("Health check failed")
				config.Fail(w, http.StatusServiceUnavailable, "database unavailable", nil)
				return
			}
		}
		config.Success(w, http.StatusOK, "ok", nil)
	}
}
