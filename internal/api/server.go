// Package api exposes the HTTP surface: assessment submission, retrieval
// and per-user history, plus a health endpoint.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/middleware"
	"github.com/longevity-snapshot-server/internal/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// AssessmentService is the use case surface the HTTP layer depends on.
type AssessmentService interface {
	Assess(ctx context.Context, profile *domain.HealthProfile) (*domain.Assessment, error)
	GetAssessment(ctx context.Context, id string) (*domain.Assessment, error)
	ListAssessments(ctx context.Context, userID string, limit, offset int) ([]*domain.Assessment, error)
}

// Server represents the HTTP server
type Server struct {
	config  *domain.Config
	service AssessmentService
	logger  *logrus.Logger
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(config *domain.Config, svc AssessmentService, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())
	if config.RateLimit.Enabled {
		router.Use(middleware.RateLimit(config.RateLimit))
	}

	server := &Server{
		config:  config,
		service: svc,
		logger:  logger,
		router:  router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")

		var err error
		if cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/assess", s.handleAssess)
		v1.GET("/assessments/:id", s.handleGetAssessment)
		v1.GET("/users/:user_id/assessments", s.handleListAssessments)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// handleAssess accepts a health profile, runs the assessment pipeline and
// returns the synthesized result. Anonymous submissions get a generated
// user ID.
func (s *Server) handleAssess(c *gin.Context) {
	var profile domain.HealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if profile.UserID == "" {
		profile.UserID = uuid.New().String()
	}

	if err := profile.Validate(); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := s.service.Assess(c.Request.Context(), &profile)
	if err != nil {
		s.logger.WithError(err).WithField("correlation_id", c.GetString("correlation_id")).
			Error("Assessment failed")
		s.respondError(c, http.StatusInternalServerError, "assessment failed")
		return
	}

	c.JSON(http.StatusOK, assessmentResponse(assessment))
}

// handleGetAssessment retrieves a stored assessment by ID.
func (s *Server) handleGetAssessment(c *gin.Context) {
	id := c.Param("id")

	assessment, err := s.service.GetAssessment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			s.respondError(c, http.StatusNotFound, "assessment not found")
			return
		}
		s.logger.WithError(err).Error("Failed to load assessment")
		s.respondError(c, http.StatusInternalServerError, "failed to load assessment")
		return
	}

	c.JSON(http.StatusOK, assessmentResponse(assessment))
}

// handleListAssessments returns a user's assessment history.
func (s *Server) handleListAssessments(c *gin.Context) {
	userID := c.Param("user_id")
	limit := queryInt(c, "limit", defaultListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	list, err := s.service.ListAssessments(c.Request.Context(), userID, limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list assessments")
		s.respondError(c, http.StatusInternalServerError, "failed to list assessments")
		return
	}

	items := make([]gin.H, 0, len(list))
	for _, a := range list {
		items = append(items, assessmentResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     userID,
		"count":       len(items),
		"assessments": items,
	})
}

// assessmentResponse shapes an assessment for the wire.
func assessmentResponse(a *domain.Assessment) gin.H {
	resp := gin.H{
		"assessment_id": a.ID,
		"user_id":       a.UserID,
		"timestamp":     a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.Cached {
		resp["cached"] = true
	}
	if a.Result != nil {
		resp["recommendations"] = a.Result.Recommendations
		resp["insights"] = a.Result.Insights
		resp["confidence"] = a.Result.Confidence
		resp["agent_contributions"] = a.Result.AgentContributions
	}
	return resp
}

func (s *Server) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":          message,
		"correlation_id": c.GetString("correlation_id"),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
