package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/job-board/internal/config"
	"github.com/crucial707/job-board/internal/handlers"
	"github.com/crucial707/job-board/internal/middleware"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full handler chain. Kept separate from main so the
// integration tests can mount it on httptest with a sqlmock database.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	authHandler := &handlers.AuthHandler{
		UserRepo:    repo.NewUserRepo(db),
		Secret:      []byte(cfg.JWTSecret),
		ExpireHours: cfg.JWTExpireHours,
	}
	auditRepo := repo.NewAuditRepo(db)
	jobPostHandler := &handlers.JobPostHandler{Repo: repo.NewJobPostRepo(db), AuditRepo: auditRepo}
	userHandler := &handlers.UserHandler{Repo: authHandler.UserRepo, AuditRepo: auditRepo}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}

	requireAuth := middleware.JWTMiddleware([]byte(cfg.JWTSecret))
	authLimiter := middleware.AuthRateLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	// Operational endpoints (no auth)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public
	r.With(authLimiter.Middleware).Post("/auth/login", authHandler.Login)
	r.With(authLimiter.Middleware).Post("/auth/register", authHandler.Register)
	r.Get("/job-posts", jobPostHandler.ListJobPosts)
	r.Get("/job-posts/{id}", jobPostHandler.GetJobPost)
	r.Get("/users/{id}", userHandler.GetUser)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/auth/profile", authHandler.Profile)
		r.Post("/job-posts", jobPostHandler.CreateJobPost)
		r.Patch("/job-posts/{id}", jobPostHandler.UpdateJobPost)
		r.Delete("/job-posts/{id}", jobPostHandler.DeleteJobPost)
		r.Patch("/users/{id}", userHandler.UpdateUser)
		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
