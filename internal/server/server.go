// Package server is the wiring layer: it assembles the dependency graph
// (database → services → handlers), defines the routes, and owns the HTTP
// server's lifecycle including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/sweet-shop/internal/auth"
	"github.com/sakif/sweet-shop/internal/config"
	"github.com/sakif/sweet-shop/internal/handler"
	"github.com/sakif/sweet-shop/internal/middleware"
	sqliteRepo "github.com/sakif/sweet-shop/internal/repository/sqlite"
	"github.com/sakif/sweet-shop/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection is closed during shutdown so the WAL is flushed and the file
// lock released.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
// sqlite.DB → services → handlers → routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService()

	sweetService := service.NewSweetService(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	sweetHandler := handler.NewSweetHandler(sweetService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	// Global middleware, in order: request ID, real IP, panic recovery,
	// request logging, CORS for the browser client.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         s.cfg.CORS.MaxAge,
	}))

	// Shop page and static assets.
	shopHandler, err := handler.NewShopHandler(s.cfg.Server.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating shop handler: %w", err)
	}
	s.router.Get("/", shopHandler.HandleShop)

	fileServer := http.FileServer(http.Dir(s.cfg.Server.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// API routes. Delete and restock are admin-only, but the role check
	// lives in the service layer; the router only distinguishes
	// authenticated from anonymous.
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, s.db))

			r.Get("/me", authHandler.HandleMe)

			r.Route("/sweets", func(r chi.Router) {
				r.Get("/", sweetHandler.HandleList)
				r.Post("/", sweetHandler.HandleCreate)
				r.Get("/search", sweetHandler.HandleSearch)
				r.Put("/{id}", sweetHandler.HandleUpdate)
				r.Delete("/{id}", sweetHandler.HandleDelete)
				r.Post("/{id}/purchase", sweetHandler.HandlePurchase)
				r.Post("/{id}/restock", sweetHandler.HandleRestock)
			})
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the configured timeout, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("database", s.cfg.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
