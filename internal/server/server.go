// Package server wires the dependency graph and runs the HTTP server.
//
// This is the composition root: main.go hands over a Config and a logger,
// and New assembles DB → repositories → services → handlers → routes in
// one place. Nothing else in the codebase constructs cross-layer
// dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/mentor-match/internal/auth"
	"github.com/sakif/mentor-match/internal/config"
	"github.com/sakif/mentor-match/internal/handler"
	"github.com/sakif/mentor-match/internal/middleware"
	"github.com/sakif/mentor-match/internal/model"
	sqliteRepo "github.com/sakif/mentor-match/internal/repository/sqlite"
	"github.com/sakif/mentor-match/internal/service"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers all routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the API routes.
//
// Route groups, by authentication requirement:
//
//	public:       POST /api/signup, POST /api/login
//	any user:     GET /api/me, PUT /api/profile, GET /api/images/{role}/{id}
//	mentee only:  GET /api/mentors, POST /api/match-requests,
//	              GET /api/match-requests/outgoing, DELETE /api/match-requests/{id}
//	mentor only:  GET /api/match-requests/incoming,
//	              PUT /api/match-requests/{id}/accept, PUT .../{id}/reject
//
// Role gates return 403 for an authenticated caller with the wrong role;
// everything behind RequireAuth returns a uniform 401 for a bad token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenIssuer, s.config.TokenAudience)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db.Users, tokens, passwords, s.logger)
	profileService := service.NewProfileService(s.db.Users, s.logger)
	matchService := service.NewMatchService(s.db.MatchRequests, s.db.Users, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	matchHandler := handler.NewMatchHandler(matchService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)

		// Authenticated, any role
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Put("/profile", profileHandler.HandleUpdateProfile)
			r.Get("/images/{role}/{id}", profileHandler.HandleGetImage)

			// Mentee-only
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleMentee))

				r.Get("/mentors", profileHandler.HandleListMentors)
				r.Post("/match-requests", matchHandler.HandleCreate)
				r.Get("/match-requests/outgoing", matchHandler.HandleListOutgoing)
				r.Delete("/match-requests/{id}", matchHandler.HandleCancel)
			})

			// Mentor-only
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleMentor))

				r.Get("/match-requests/incoming", matchHandler.HandleListIncoming)
				r.Put("/match-requests/{id}/accept", matchHandler.HandleAccept)
				r.Put("/match-requests/{id}/reject", matchHandler.HandleReject)
			})
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
