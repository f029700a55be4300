package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
)

// DocumentProcessor runs extraction and optional summarization for one upload.
type DocumentProcessor interface {
	Process(ctx context.Context, doc extract.InputDocument, opts core.Options) (core.Outcome, error)
}

type Config struct {
	Addr           string
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Server holds the state for the upload API.
type Server struct {
	cfg        Config
	processor  DocumentProcessor
	summarizer core.Summarizer
	router     *gin.Engine
	logger     *slog.Logger
}

// NewServer creates a new Server instance.
func NewServer(cfg Config, processor DocumentProcessor, summarizer core.Summarizer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = constants.MaxUploadBytes
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	r := gin.New()
	s := &Server{
		cfg:        cfg,
		processor:  processor,
		summarizer: summarizer,
		router:     r,
		logger:     logger,
	}
	r.Use(gin.Recovery(), s.requestContext())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/v1/extract", s.handleExtract)
	s.router.POST("/v1/summarize", s.handleSummarize)
	s.router.POST("/v1/documents", s.handleDocuments)
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestContext tags every request with an ID and logs its outcome.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))

		c.Next()

		s.logger.Info("http.request",
			"req_id", rid,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
