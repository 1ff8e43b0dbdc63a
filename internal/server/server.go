package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-wizard/internal/config"
	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/generator"
	"github.com/jonathan/resume-wizard/internal/pipeline"
	"github.com/jonathan/resume-wizard/internal/sections"
	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	db           *db.DB
	orchestrator *pipeline.Orchestrator
	userService  *UserService
	authHandler  *AuthHandler
	rateLimiter  *ratelimit.Limiter
	validator    *validator.Validate
	logger       *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
}

// New creates a new server instance
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	drafts := draft.NewManager(database, logger)
	repo := sections.NewRepository(database)
	orchestrator := pipeline.New(drafts, repo, generator.NewLocal(), logger)

	s := &Server{
		db:           database,
		orchestrator: orchestrator,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validator:    validator.New(),
		logger:       logger,
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	jwtService := NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, jwtService)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Draft endpoints require authentication
	authed := middleware.Auth(jwtService.AsTokenValidator())
	protected := http.NewServeMux()
	protected.HandleFunc("POST /drafts/{request_id}/generate", s.handleGenerateAll)
	protected.HandleFunc("POST /drafts/{request_id}/sections/{section_type}", s.handleGenerateSection)
	protected.HandleFunc("GET /drafts/{request_id}/sections", s.handleGetSections)
	protected.HandleFunc("GET /drafts/{request_id}", s.handleGetDraft)
	protected.HandleFunc("POST /drafts/{request_id}/dirty", s.handleMarkDirty)
	mux.Handle("/drafts/", authed(protected))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start listens for requests until an interrupt or termination signal
// arrives, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		s.rateLimiter.Stop()
		s.db.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its status and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// withRateLimit rejects clients that exceed their token bucket.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(ratelimit.ClientKey(r)) {
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}
