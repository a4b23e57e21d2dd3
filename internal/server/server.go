// Package server exposes the analyzer over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/highlight"
	"github.com/ppiankov/credence/internal/keywords"
	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/worker"
)

// Analyzer produces a report for submitted text
type Analyzer interface {
	Analyze(ctx context.Context, source string, text string, format extract.Format) (*model.Report, error)
}

// Server serves the analysis API
type Server struct {
	engine   *gin.Engine
	analyzer Analyzer
	limiter  *worker.Limiter
	config   *model.Config
}

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"` // text (default) or html
}

// HighlightRequest is the body of POST /api/highlight
type HighlightRequest struct {
	Text       string               `json:"text"`
	Highlights model.HighlightSpans `json:"highlights"`
}

// New builds the server and its routes
func New(cfg *model.Config, analyzer Analyzer) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	s := &Server{
		engine:   gin.New(),
		analyzer: analyzer,
		limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize, 10*time.Minute),
		config:   cfg,
	}

	for _, c := range cfg.RateLimiting.Clients {
		s.limiter.SetKeyRate(c.Client, c.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	}

	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.Use(s.rateLimit(), s.limitBody())
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/highlight", s.handleHighlight)
		api.GET("/keywords", s.handleKeywords)
		api.GET("/keywords/:name", s.handleKeywordTable)
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Log.Info("server stopped")
	return nil
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	format, err := extract.ParseFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := req.Text
	if format == extract.FormatHTML {
		text, err = extract.VisibleText(text)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid HTML: %v", err)})
			return
		}
	}

	report, err := s.analyzer.Analyze(c.Request.Context(), "api", text, format)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": extract.EmptyInputMessage})
			return
		}
		if errors.Is(err, extract.ErrInputTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		logger.Log.WithError(err).Error("analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHighlight(c *gin.Context) {
	var req HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"segments": highlight.Highlight(req.Text, req.Highlights),
	})
}

func (s *Server) handleKeywords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tables":               keywords.Tables(),
		"exaggeration_display": keywords.ExaggerationDisplay(),
	})
}

func (s *Server) handleKeywordTable(c *gin.Context) {
	table, ok := keywords.Lookup(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown keyword table %q", c.Param("name"))})
		return
	}
	c.JSON(http.StatusOK, table)
}

// bindError answers a request whose JSON body could not be decoded
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// rateLimit rejects clients that exceed their token bucket
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

// limitBody caps request bodies at the configured input size plus room for JSON framing
func (s *Server) limitBody() gin.HandlerFunc {
	limit := s.config.Input.MaxBytes + 4096
	return func(c *gin.Context) {
		if c.Request.Body != nil && strings.HasPrefix(c.Request.Method, "P") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"client":   c.ClientIP(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}
