package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/lifemanager/internal/app"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/auth"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/dashboard"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/profile"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/ratelimit"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/report"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/team"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Tasks        *task.Handler
	Transactions *transaction.Handler
	Goals        *goal.Handler
	Team         *team.Handler
	Profile      *profile.Handler
	Dashboard    *dashboard.Handler
	Achievements *achievement.Handler
	Reports      *report.Handler
	Backup       *backup.Handler
}

func NewHandlers(a *app.App, tokens *auth.Tokens) Handlers {
	return Handlers{
		Auth:         auth.NewHandler(a.Session, tokens),
		Tasks:        task.NewHandler(a.Tasks),
		Transactions: transaction.NewHandler(a.Transactions),
		Goals:        goal.NewHandler(a.Goals),
		Team:         team.NewHandler(a.Team),
		Profile:      profile.NewHandler(a.Profile),
		Dashboard:    dashboard.NewHandler(a.Session),
		Achievements: achievement.NewHandler(a.Session),
		Reports:      report.NewHandler(a.Reports),
		Backup:       backup.NewHandler(a.Backup, a.Session),
	}
}

// New mounts the v1 API. Everything except registration and login requires a bearer token
// for the signed-in user; the auth routes are rate limited per client.
func New(h Handlers, reg *prometheus.Registry, limiter *ratelimit.Limiter) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	router.Use(metrics.New(reg).Instrument)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", metrics.Handler(reg))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Handler)
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Require)

			r.Route("/tasks", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Tasks.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Goals.Routes(r)
			})

			r.Route("/team", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Team.Routes(r)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Profile.Routes(r)
			})

			r.Route("/dashboard", h.Dashboard.Routes)
			r.Route("/achievements", h.Achievements.Routes)
			r.Route("/reports", h.Reports.Routes)
			r.Route("/backup", h.Backup.Routes)
		})
	})

	return router
}
