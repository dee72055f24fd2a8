// Package server is the HTTP deployment adapter. It only translates a
// request payload into the single email input and relays the
// VerificationResult back verbatim; all verification semantics live in the
// mailprobe package.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/optimode/mailprobe"
)

// Server serves /verify over HTTP.
type Server struct {
	verifier *mailprobe.Verifier
	log      *zap.Logger
	engine   *gin.Engine
}

type verifyRequest struct {
	Email string `json:"email"`
}

// New wires the routes. A nil logger disables logging.
func New(v *mailprobe.Verifier, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{verifier: v, log: log, engine: engine}
	engine.GET("/verify", s.handleVerify)
	engine.POST("/verify", s.handleVerify)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return s
}

// Handler exposes the routes for tests and custom HTTP servers.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) handleVerify(c *gin.Context) {
	email := c.Query("email")
	if email == "" && c.Request.Method == http.MethodPost {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			email = req.Email
		}
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email parameter required"})
		return
	}

	start := time.Now()
	result := s.verifier.Verify(c.Request.Context(), email)

	s.log.Info("verification served",
		zap.String("email", email),
		zap.String("status", result.Status),
		zap.Int("score", result.Score),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, result)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("server shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
