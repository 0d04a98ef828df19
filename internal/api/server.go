package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/plainvanilla/portal/internal/api/handler"
	mw "github.com/plainvanilla/portal/internal/api/middleware"
	"github.com/plainvanilla/portal/internal/config"
	"github.com/plainvanilla/portal/internal/core"
)

type Server struct {
	router         chi.Router
	logger         zerolog.Logger
	services       *core.Services
	pool           *pgxpool.Pool
	temporalClient temporalclient.Client
	cfg            *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, temporalClient temporalclient.Client, gc core.Graph, cfg *config.Config) *Server {
	services := core.NewServices(pool, temporalClient, gc, cfg, logger)

	s := &Server{
		router:         chi.NewRouter(),
		logger:         logger,
		services:       services,
		pool:           pool,
		temporalClient: temporalClient,
		cfg:            cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api", func(r chi.Router) {
		s.setupAdminRoutes(r)
		s.setupPortalRoutes(r)
	})
}

// setupAdminRoutes mounts the admin API, authenticated with an API key.
func (s *Server) setupAdminRoutes(api chi.Router) {
	api.Group(func(r chi.Router) {
		r.Use(mw.Auth(s.pool))

		// Dashboard
		dashboard := handler.NewDashboard(s.services.Dashboard)
		r.Get("/dashboard/stats", dashboard.Stats)

		// Projects
		project := handler.NewProject(s.services.Project)
		r.Get("/projects", project.List)
		r.Post("/projects", project.Create)
		r.Get("/projects/{projectID}", project.Get)
		r.Patch("/projects/{projectID}", project.Update)
		r.Delete("/projects/{projectID}", project.Delete)
		r.Post("/projects/{projectID}/setup-all", project.Setup)
		r.Post("/projects/{projectID}/provision", project.Provision)
		r.Post("/projects/{projectID}/resources", project.AttachResources)

		// Phases
		phase := handler.NewPhase(s.services.Phase, s.services.Project)
		r.Post("/projects/{projectID}/phases", phase.Create)
		r.Patch("/projects/{projectID}/phases/{phaseID}", phase.Update)
		r.Delete("/projects/{projectID}/phases/{phaseID}", phase.Delete)

		// Sessions
		session := handler.NewSession(s.services.Session, s.services.Project)
		r.Post("/projects/{projectID}/sessions", session.Create)
		r.Patch("/projects/{projectID}/sessions/{sessionID}", session.Update)
		r.Delete("/projects/{projectID}/sessions/{sessionID}", session.Delete)

		// Tasks
		task := handler.NewTask(s.services.Task, s.services.Project)
		r.Post("/projects/{projectID}/tasks", task.Create)
		r.Patch("/projects/{projectID}/tasks/{taskID}", task.Update)
		r.Delete("/projects/{projectID}/tasks/{taskID}", task.Delete)

		// Client portal access
		access := handler.NewClientAccess(s.services.ClientAccess, s.services.Project)
		r.Get("/projects/{projectID}/access", access.List)
		r.Post("/projects/{projectID}/access", access.Grant)
		r.Delete("/projects/{projectID}/access/{userID}", access.Revoke)
		r.Post("/projects/{projectID}/access/{userID}/resend", access.Resend)

		// API keys
		apiKey := handler.NewAPIKey(s.services.APIKey)
		r.Get("/api-keys", apiKey.List)
		r.Post("/api-keys", apiKey.Create)
		r.Delete("/api-keys/{keyID}", apiKey.Delete)
	})
}

// setupPortalRoutes mounts the client portal API, authenticated with the
// bearer token from login.
func (s *Server) setupPortalRoutes(api chi.Router) {
	portal := handler.NewPortal(s.services.Portal, s.services.Project, s.services.Task)
	api.Route("/portal", func(r chi.Router) {
		r.Post("/login", portal.Login)

		r.Group(func(r chi.Router) {
			r.Use(mw.PortalAuth(s.services.Portal))
			r.Get("/projects/{slug}", portal.GetProject)
			r.Patch("/projects/{slug}/tasks/{taskID}", portal.UpdateTaskStatus)
			r.Get("/projects/{slug}/messages", portal.ListMessages)
			r.Post("/projects/{slug}/messages", portal.CreateMessage)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	if _, err := s.temporalClient.CheckHealth(ctx, &temporalclient.CheckHealthRequest{}); err != nil {
		checks["temporal"] = err.Error()
		healthy = false
	} else {
		checks["temporal"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
