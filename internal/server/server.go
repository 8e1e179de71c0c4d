// Package server exposes the stat engine over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slurve/dugout/internal/config"
	"github.com/slurve/dugout/internal/engine"
)

// Server owns the router and the underlying http.Server.
type Server struct {
	http   *http.Server
	router *gin.Engine
}

// New wires the routes and returns a server ready to run.
func New(cfg *config.Config, eng *engine.Engine, log *zap.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	h := NewHandler(eng, log)
	router.GET("/health", h.Health)
	router.GET("/characters/", h.Characters)
	router.GET("/games/", h.Games)
	router.GET("/profile/stats/", h.Profile)
	router.GET("/detailed_stats/", h.Detailed)

	return &Server{
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		router: router,
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
