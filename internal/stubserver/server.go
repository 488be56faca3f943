// Package stubserver is an in-process stand-in for the hosted BookReview
// backend. It serves the same routes and response shapes under /api and is
// used by the test suite and the "stub" command.
package stubserver

import (
	"context"
	"time"

	"bookreview/internal/handlers"
	"bookreview/internal/middleware"
	"bookreview/internal/repositories"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

// Config configures a stub server.
type Config struct {
	JWTSecret string
	// Repo defaults to an empty in-memory library.
	Repo repositories.LibraryRepository
	Log  *logrus.Logger
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// Server is the stub backend.
type Server struct {
	app    *fiber.App
	repo   repositories.LibraryRepository
	tokens *middleware.Tokens
	log    *logrus.Logger
}

// New builds the fiber app with every backend route registered.
func New(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.Repo == nil {
		cfg.Repo = repositories.NewMockLibraryRepository()
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "stub_jwt_secret"
	}

	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		repo:   cfg.Repo,
		tokens: middleware.NewTokens(cfg.JWTSecret),
		log:    cfg.Log,
	}

	if cfg.AccessLog {
		s.app.Use(fiberlogger.New())
	}

	api := s.app.Group("/api")
	auth := middleware.AuthRequired(s.tokens, cfg.Log)

	handlers.NewAuthHandler(s.repo, s.tokens, cfg.Log).RegisterRoutes(api)
	handlers.NewBookHandler(s.repo, cfg.Log).RegisterRoutes(api, auth)
	handlers.NewReviewHandler(s.repo, cfg.Log).RegisterRoutes(api, auth)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return s
}

// App exposes the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Repo exposes the backing library, for seeding.
func (s *Server) Repo() repositories.LibraryRepository { return s.repo }

// Run listens on addr until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("stub backend listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down stub backend")
	if err := s.app.Shutdown(); err != nil {
		s.log.WithError(err).Error("error during fiber shutdown")
		return err
	}
	s.log.Info("stub backend stopped")
	return nil
}
