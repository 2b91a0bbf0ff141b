// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the outline pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/note-outline/internal/outline"
	"github.com/pdiddy/note-outline/pkg/types"
)

const (
	// OutlinePath is the single pipeline endpoint.
	OutlinePath = "/note_top_outline"

	requestIDHeader = "X-Request-Id"
	shutdownTimeout = 10 * time.Second
)

// Outliner builds an outline for a query.
type Outliner interface {
	Build(ctx context.Context, query string, num int) (types.OutlineResponse, error)
}

// Server is the HTTP front end.
type Server struct {
	cfg    types.ServerConfig
	svc    Outliner
	logger *zap.Logger
	engine *gin.Engine
}

// New wires the routes. A nil logger disables logging.
func New(cfg types.ServerConfig, svc Outliner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, svc: svc, logger: logger, engine: gin.New()}

	s.engine.Use(requestID(), accessLog(logger), gin.CustomRecovery(s.recovered))
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, outline.ErrorBody{Error: "Not found"})
	})

	s.engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK: note-outline")
	})
	for _, p := range []string{"/health", "/ping"} {
		s.engine.GET(p, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}

	g := s.engine.Group(OutlinePath, requireToken(cfg.Token))
	g.GET("", s.outlineGET)
	g.POST("", s.outlinePOST)

	return s
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the configured port until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Token == "" {
		s.logger.Warn("no API token configured; " + OutlinePath + " is unauthenticated")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// recovered is the last line of defense: any panic becomes a JSON 500.
func (s *Server) recovered(c *gin.Context, rec any) {
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("%v", rec)
	}
	s.logger.Error("panic in handler", zap.String("path", c.Request.URL.Path), zap.Error(err))
	writeError(c, outline.Internal(err))
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)))
	}
}

func writeError(c *gin.Context, e *outline.Error) {
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), e.Body())
}
