// Package server is the HTTP shell: login pages, the signed-in frame and
// the JSON views contributed by the features.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"omninews/internal/app"
	"omninews/internal/auth"
	"omninews/internal/core"
	"omninews/internal/features/folders"
	"omninews/internal/features/news"
	"omninews/internal/features/rss"
	"omninews/internal/features/search"
	"omninews/internal/features/settings"
	"omninews/internal/server/handlers"
)

const shutdownTimeout = 10 * time.Second

// Server serves the shell for one client
type Server struct {
	app        *app.App
	config     *core.Config
	logger     *core.Logger
	registry   *core.Registry
	middleware *auth.Middleware
	handler    http.Handler
	server     *http.Server
}

// New registers the feature views and builds the router
func New(a *app.App) (*Server, error) {
	logger := a.Logger
	basePath := strings.TrimRight(a.Config.Server.BasePath, "/")
	mw := auth.NewMiddleware(a.Auth, basePath, logger)

	s := &Server{
		app:        a,
		config:     a.Config,
		logger:     logger,
		registry:   core.NewRegistry(logger),
		middleware: mw,
	}

	if err := s.registerFeatures(basePath); err != nil {
		return nil, err
	}

	s.handler = s.routes(basePath)
	s.server = &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) registerFeatures(basePath string) error {
	a := s.app
	features := []core.Feature{
		news.NewFeature(s.logger, a.API.News, s.middleware),
		rss.NewFeature(s.logger, a, s.middleware, rss.NewConfig(s.config)),
		search.NewFeature(s.logger, a.Search, s.middleware),
		folders.NewFeature(s.logger, folders.NewService(a.API.Folders, a.Cache, s.logger.ForFeature("folders")), s.middleware),
		settings.NewFeature(s.logger,
			settings.NewService(a.API.Auth, a.API.Subscriptions, a.Auth, a.Session, a.Cache, s.logger.ForFeature("settings")),
			a.Auth, s.middleware, s.middleware.LoginPath()),
	}

	for _, f := range features {
		if err := s.registry.Register(f); err != nil {
			return core.NewFeatureError(f.Name(), "failed to register", err)
		}
	}
	return nil
}

func (s *Server) routes(basePath string) http.Handler {
	authHandler := auth.NewHandler(s.app.Auth, s.middleware, s.logger)
	portal := handlers.NewPortalHandler(s.logger, s.registry, basePath, s.app.DB)

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)

	shell := func(r chi.Router) {
		r.Use(s.middleware.Authenticate)

		// Public
		r.Get("/login", portal.LoginPageHandler)
		r.Post("/login/demo", authHandler.DemoLoginHandler)
		r.Post("/login/google", authHandler.GoogleLoginHandler)
		r.Post("/login/apple", authHandler.AppleLoginHandler)
		r.Get("/health", portal.HealthCheckHandler)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(s.middleware.RequireAuthentication)

			r.Get("/", portal.ShellHandler)
			r.Post("/logout", authHandler.LogoutHandler)
			r.Route("/api", func(r chi.Router) {
				r.Get("/nav", portal.NavHandler)
				s.registry.Mount(r)
			})
		})
	}

	if basePath == "" {
		mux.Group(shell)
	} else {
		mux.Route(basePath, shell)
		mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusSeeOther)
		})
	}
	return mux
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start initializes the features and serves until the server is shut down
func (s *Server) Start(ctx context.Context) error {
	if err := s.registry.InitAll(ctx); err != nil {
		s.logger.Error("Failed to initialize features", "error", err)
		return err
	}

	s.logger.Info("Starting server", "addr", s.server.Addr, "base_path", s.config.Server.BasePath, "api", s.config.API.BaseURL)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown stops the features and the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	s.registry.ShutdownAll(ctx)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
