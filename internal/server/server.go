package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studyhall/studyhall/internal/config"
	"github.com/studyhall/studyhall/internal/exercise/generate"
	"github.com/studyhall/studyhall/internal/exercise/grade"
	"github.com/studyhall/studyhall/internal/logger"
	"github.com/studyhall/studyhall/internal/store"
)

// Server is the HTTP surface of the exercise engine.
type Server struct {
	cfg       config.Config
	log       *logger.Logger
	generator generate.Generator
	grader    *grade.Grader
	recorder  *store.Recorder
	attempts  store.AttemptRepo

	http *http.Server
}

// New assembles a Server from its collaborators.
func New(cfg config.Config, log *logger.Logger, generator generate.Generator, grader *grade.Grader, recorder *store.Recorder, attempts store.AttemptRepo) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log.With("component", "server"),
		generator: generator,
		grader:    grader,
		recorder:  recorder,
		attempts:  attempts,
	}
	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.router(),
	}
	return s
}

func (s *Server) router() *gin.Engine {
	if s.cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())

	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api/v1")
	api.Use(requireAuth(s.cfg.JWTSecret))
	{
		api.POST("/exercises/generate", s.handleGenerate)
		api.POST("/exercises/grade", s.handleGrade)
		api.POST("/exercises/generated", s.handleSaveGenerated)
		api.GET("/exercises/generated", s.handleListGenerated)
	}

	return r
}

// requestLog writes one structured line per request.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"durationMs", time.Since(start).Milliseconds(),
		)
	}
}

// ListenAndServe runs the HTTP server until the context is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	s.log.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
