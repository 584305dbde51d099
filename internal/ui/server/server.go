package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/middleware"
	"github.com/infinity-booking/provider-ui/internal/ui/client"
	"github.com/infinity-booking/provider-ui/internal/ui/config"
	"github.com/infinity-booking/provider-ui/internal/ui/handlers"
	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/session"
	"github.com/infinity-booking/provider-ui/internal/ui/templates"
)

const (
	requestTimeout = 60 * time.Second

	// maxFormSize is the largest form body accepted by the POST handlers
	maxFormSize = 64 * 1024
)

// rate limited form submissions
var authForms = []string{routes.Login, routes.Register, routes.ForgotPassword, routes.ResetPassword}

type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	sessions *session.Manager
	handlers *handlers.HandlerService
}

// NewServer creates the UI server: the route table, the static assets and, in dev, the API proxy
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.CookieSecret == "" {
		logger.Warn("COOKIE_SECRET not set - using a random key, sessions will not survive a restart")
	}
	codec, err := session.NewCodec(cfg.CookieSecret)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(codec, cfg.SecureCookies())

	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}

	baseURL := cfg.ResolveAPIBaseURL()
	logger.Info("booking API configured",
		slog.String("base_url", baseURL),
		slog.String("mode", apiMode(cfg)),
	)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		sessions: sessions,
		handlers: &handlers.HandlerService{
			ApiClient:   client.NewClient(client.Config{BaseURL: baseURL, Timeout: cfg.APITimeout}, session.ContextToken),
			Sessions:    sessions,
			Templates:   renderer,
			Environment: cfg.Environment,
		},
	}

	s.setupMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func apiMode(cfg *config.Config) string {
	switch {
	case cfg.APIBaseURL != "":
		return "override"
	case cfg.IsDev():
		return "dev proxy"
	default:
		return "direct"
	}
}

// proxyEnabled reports whether API calls go through the dev proxy mounted on this server
func (s *Server) proxyEnabled() bool {
	return s.config.IsDev() && s.config.APIBaseURL == ""
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(chimiddleware.RedirectSlashes)
	s.router.Use(chimiddleware.Timeout(requestTimeout))
}

func (s *Server) registerRoutes() error {
	s.router.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Static assets (no auth required)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.StaticDir))))

	if s.proxyEnabled() {
		proxy, err := newDevProxy(s.config.APIProxyTarget)
		if err != nil {
			return err
		}
		corsMiddleware, err := middleware.NewCORS(s.config.AllowedOrigins, config.CORSMaxAgeInSeconds)
		if err != nil {
			return fmt.Errorf("failed to create CORS middleware: %w", err)
		}

		s.router.Route(config.DevProxyPath, func(r chi.Router) {
			r.Use(middleware.CORS(corsMiddleware))
			r.Handle("/*", proxy)
		})
		s.logger.Info("dev API proxy enabled",
			slog.String("path", config.DevProxyPath),
			slog.String("target", s.config.APIProxyTarget),
		)
	}

	pages := s.handlers.Pages()

	limit := middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst)
	for _, name := range authForms {
		page := pages[name]
		page.Post = limit(page.Post).ServeHTTP
		pages[name] = page
	}

	sizeLimit := middleware.RequestSizeLimit(maxFormSize)
	for name, page := range pages {
		if page.Post != nil {
			page.Post = sizeLimit(page.Post).ServeHTTP
			pages[name] = page
		}
	}

	if err := routes.Mount(s.router, routes.Table, pages, routes.NewGuard(s.sessions)); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}
	return nil
}

// Handler returns the root handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the UI server until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("UI server listening", slog.String("address", addr), slog.String("environment", s.config.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down UI server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
