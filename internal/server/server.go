package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/multiview/multiview/internal/docs"
	"github.com/multiview/multiview/internal/ratelimit"
	"github.com/multiview/multiview/internal/validate"
	"github.com/multiview/multiview/internal/wall"
)

type Config struct {
	BaseURL               string
	EmbedBaseURL          string
	MaxVideos             int
	SettingsDelay         time.Duration
	AllowedFrameAncestors string
	EnableDocs            bool
	// Walls enables the live wall routes when set.
	Walls *wall.Registry
}

type Server struct {
	router   chi.Router
	cfg      Config
	walls    *wall.Registry
	limiters []*ratelimit.Limiter
}

func New(cfg Config) *Server {
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = validate.DefaultMaxVideos
	}
	if cfg.SettingsDelay <= 0 {
		cfg.SettingsDelay = wall.DefaultSettingsDelay
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:        cfg.BaseURL,
		EmbedBaseURL:   cfg.EmbedBaseURL,
		FrameAncestors: cfg.AllowedFrameAncestors,
	}))

	s := &Server{router: r, cfg: cfg, walls: cfg.Walls}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the background work of the rate limiters. Walls belong to the
// caller.
func (s *Server) Close() {
	for _, l := range s.limiters {
		l.Stop()
	}
}

func (s *Server) limiter(requestsPerSecond float64, burst int) *ratelimit.Limiter {
	l := ratelimit.NewLimiter(requestsPerSecond, burst)
	s.limiters = append(s.limiters, l)
	return l
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	if s.cfg.EnableDocs {
		s.router.Get("/api/docs", docs.HandleDocs)
		s.router.Get("/api/docs/openapi.yaml", docs.HandleSpec)
	}

	commandLimiter := s.limiter(5, 30)

	s.router.Get("/", s.handleGridPage)
	s.router.With(commandLimiter.Middleware).Post("/grid/commands", s.handleGridForm)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/size-modes", s.handleSizeModes)
		r.Get("/limits", s.handleLimits)
		r.Get("/grid/layout", s.handleLayout)
		r.With(commandLimiter.Middleware).Post("/grid/commands", s.handleGridCommands)
	})

	if s.walls != nil {
		wallLimiter := s.limiter(10, 50)
		createLimiter := s.limiter(0.2, 5)

		s.router.With(createLimiter.Middleware).Post("/api/walls", s.handleCreateWall)
		s.router.Route("/api/walls/{id}", func(r chi.Router) {
			r.Use(wallLimiter.Middleware)
			r.Get("/", s.handleWallState)
			r.Delete("/", s.handleDeleteWall)
			r.Post("/commands", s.handleWallCommands)
			r.Post("/player", s.handleWallPlayer)
		})
		s.router.Get("/walls/{id}", s.handleWallPage)
		s.router.With(wallLimiter.Middleware).Post("/walls/{id}/commands", s.handleWallForm)
		s.router.Get("/ws/walls/{id}", s.handleWallSocket)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
