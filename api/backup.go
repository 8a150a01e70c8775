package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) createBackup(c *gin.Context) {
	if s.backups == nil {
		s.failure(c, ErrBackupsDisabled)
		return
	}

	info, err := s.backups.Create(c.Request.Context())
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Backup created successfully",
		"filename": info.Filename,
		"size":     info.Size,
	})
}

func (s *Server) backupStatus(c *gin.Context) {
	if s.backups == nil {
		s.failure(c, ErrBackupsDisabled)
		return
	}

	backups, err := s.backups.List()
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"backups": backups,
	})
}

func (s *Server) downloadBackup(c *gin.Context) {
	if s.backups == nil {
		s.failure(c, ErrBackupsDisabled)
		return
	}

	f, info, err := s.backups.Open(c.Param("filename"))
	if err != nil {
		s.failure(c, err)
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, info.Size, "application/zstd", f, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, info.Filename),
	})
}

func (s *Server) restoreBackup(c *gin.Context) {
	if s.backups == nil {
		s.failure(c, ErrBackupsDisabled)
		return
	}

	var body struct {
		Filename string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.failure(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(body.Filename) == "" {
		s.failure(c, fmt.Errorf("%w: filename is required", ErrBadRequest))
		return
	}

	result, err := s.backups.Restore(c.Request.Context(), body.Filename)
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Database restored successfully",
		"current_backup": result.SafetyBackup,
	})
}
