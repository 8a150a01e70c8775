package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/pharmainspect/backup"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

var (
	// ErrRecordRepositoryRequired is returned when a record repository is not provided.
	ErrRecordRepositoryRequired = errors.New("record repository required")

	// ErrAttachmentRepositoryRequired is returned when an attachment repository is not provided.
	ErrAttachmentRepositoryRequired = errors.New("attachment repository required")

	// ErrNotificationRepositoryRequired is returned when a notification repository is not provided.
	ErrNotificationRepositoryRequired = errors.New("notification repository required")

	// ErrBadRequest marks malformed request parameters or bodies.
	ErrBadRequest = errors.New("bad request")

	// ErrBackupsDisabled is returned by backup endpoints when no backup
	// manager is configured.
	ErrBackupsDisabled = errors.New("backups are not configured")
)

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, backup.ErrBackupNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, storage.ErrDuplicateKey),
		errors.Is(err, backup.ErrInvalidFilename),
		errors.Is(err, core.ErrInvalidRecord),
		errors.Is(err, core.ErrInvalidAttachment),
		errors.Is(err, core.ErrInvalidNotification):
		return http.StatusBadRequest
	case errors.Is(err, backup.ErrBackupExists):
		return http.StatusConflict
	case errors.Is(err, ErrBackupsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// failure writes the error body and aborts the request.
func (s *Server) failure(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": err.Error(),
	})
}
