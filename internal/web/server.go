// Package web serves the label check over HTTP with gin.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/ironsheep/label-verify/internal/config"
	"github.com/ironsheep/label-verify/internal/labelcheck"
	"github.com/ironsheep/label-verify/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of a labelcheck.Service.
type Server struct {
	svc       *labelcheck.Service
	cfg       config.HTTP
	logger    *logging.Logger
	sanitizer *bluemonday.Policy
	engine    *gin.Engine
}

// New builds the gin engine and its routes. A nil logger discards output.
func New(svc *labelcheck.Service, cfg config.HTTP, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	s := &Server{
		svc:       svc,
		cfg:       cfg,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
		engine:    r,
	}
	s.attachRoutes(r)
	return s
}

func (s *Server) attachRoutes(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.logger))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		corsCfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", s.healthz)

	v := r.Group("/verify")
	v.Use(BodyLimit(s.cfg.MaxUploadBytes))
	{
		v.POST("", s.verifyImage)
		v.POST("/text", s.verifyText)
	}
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr, "ocr_backend", s.svc.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve HTTP: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
