package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	deps       *Dependencies
	cfg        *config.Config
	logger     logger.Logger
}

// Run serves the HTTP API until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, logger logger.Logger, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger,
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	s.setupRouter()

	errC := make(chan error, 1)
	s.setupHTTPServer(errC)

	return s.waitForShutdown(ctx, errC)
}

func (s *server) setupDependencies(ctx context.Context) error {
	deps, err := NewDependencies(ctx, s.logger, s.cfg)
	if err != nil {
		return err
	}
	s.deps = deps

	return nil
}

func (s *server) setupRouter() {
	router := newRouter(s.logger)

	setupRoutes(router, s.logger, s.deps)

	s.router = router
}

func (s *server) setupHTTPServer(errC chan<- error) {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "err", err.Error())
			errC <- err
		}
	}()
}

func (s *server) waitForShutdown(ctx context.Context, errC <-chan error) error {
	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errC:
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err.Error())
	}
	if err := s.deps.Close(); err != nil {
		s.logger.Error("error closing dependencies", "err", err.Error())
	}

	if serveErr != nil {
		return fmt.Errorf("http server failed: %w", serveErr)
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
