package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// Server represents the UI web server
type Server struct {
	Logger  log.Logger
	Config  *cfg.Config
	handler *Handler
	server  *http.Server
	port    int
}

func NewServer(logger log.Logger, config *cfg.Config, users UserFinder) *Server {
	port := config.Ui.Port
	if port <= 0 {
		port = 8080
	}
	return &Server{
		Logger:  logger,
		Config:  config,
		handler: NewHandler(logger, config, users),
		port:    port,
	}
}

// SetConfig is registered as a config reload callback. The listening port
// only changes on restart.
func (s *Server) SetConfig(config *cfg.Config) {
	s.Logger.Info(context.Background(), "UI config reloaded (version %s)", config.App.Version)
	s.handler.SetConfig(config)
}

// Routes returns the mux with every API route registered
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	s.handler.RegisterRoutes(mux)
	return mux
}

// Start blocks until the server stops
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.Logger.Info(context.Background(), "Starting UI server on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.Logger.Info(ctx, "Shutting down UI server")
		return s.server.Shutdown(ctx)
	}
	return nil
}
