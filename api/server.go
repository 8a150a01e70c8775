// Package api serves the inspection records REST API.
//
// Routes live under /api and exchange JSON. Failures are reported as
// {"success": false, "message": ...} with a status derived from the error:
// 404 for missing entities, 400 for invalid input and 500 otherwise.
// Prometheus metrics are exposed on /metrics.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/pharmainspect/backup"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// RecordNotifier is told about every created record.
type RecordNotifier interface {
	RecordCreated(record *core.Record) error
}

// Server handles the REST API.
type Server struct {
	records       storage.RecordRepository
	attachments   storage.AttachmentRepository
	notifications storage.NotificationRepository
	notifier      RecordNotifier
	backups       *backup.Manager
	registry      *prometheus.Registry
	logger        *slog.Logger

	metrics *metrics
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithNotifier sets the notifier told about created records.
func WithNotifier(notifier RecordNotifier) Option {
	return func(s *Server) error {
		s.notifier = notifier
		return nil
	}
}

// WithBackups enables the backup endpoints.
func WithBackups(manager *backup.Manager) Option {
	return func(s *Server) error {
		s.backups = manager
		return nil
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with.
// Default is a fresh registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) error {
		s.registry = registry
		return nil
	}
}

// NewServer creates a server over the given repositories.
func NewServer(
	records storage.RecordRepository,
	attachments storage.AttachmentRepository,
	notifications storage.NotificationRepository,
	opts ...Option,
) (*Server, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if attachments == nil {
		return nil, ErrAttachmentRepositoryRequired
	}
	if notifications == nil {
		return nil, ErrNotificationRepositoryRequired
	}

	s := &Server{
		records:       records,
		attachments:   attachments,
		notifications: notifications,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	m, err := newMetrics(s.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	s.metrics = m
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger(), s.metrics.middleware())

	engine.GET("/metrics", s.metrics.handler())
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	api.GET("/records", s.listRecords)
	api.GET("/records/search", s.searchRecords)
	api.GET("/records/:id", s.getRecord)
	api.GET("/records/:id/attachments", s.recordAttachments)
	api.POST("/records", s.createRecord)
	api.PUT("/records/:id", s.updateRecord)
	api.DELETE("/records/:id", s.deleteRecord)

	api.POST("/attachments", s.createAttachment)
	api.GET("/attachments/:id", s.getAttachment)

	api.GET("/notifications", s.listNotifications)
	api.POST("/notifications", s.createNotification)
	api.PUT("/notifications/:id/read", s.markNotificationRead)

	api.POST("/backup", s.createBackup)
	api.GET("/backup/status", s.backupStatus)
	api.GET("/backup/download/:filename", s.downloadBackup)
	api.POST("/backup/restore", s.restoreBackup)

	return engine
}

// requestLogger logs every request through slog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
