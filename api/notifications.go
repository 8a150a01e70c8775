package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/pharmainspect/core"
)

func (s *Server) createAttachment(c *gin.Context) {
	var attachment core.Attachment
	if err := c.ShouldBindJSON(&attachment); err != nil {
		s.failure(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	stored, err := s.attachments.AddAttachment(c.Request.Context(), &attachment)
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (s *Server) getAttachment(c *gin.Context) {
	attachment, err := s.attachments.GetAttachment(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, attachment)
}

func (s *Server) listNotifications(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		s.failure(c, fmt.Errorf("%w: user_id is required", ErrBadRequest))
		return
	}

	notifications, err := s.notifications.GetNotificationsByUser(c.Request.Context(), userID)
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (s *Server) createNotification(c *gin.Context) {
	var notification core.Notification
	if err := c.ShouldBindJSON(&notification); err != nil {
		s.failure(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	stored, err := s.notifications.AddNotifications(c.Request.Context(), &notification)
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored[0])
}

func (s *Server) markNotificationRead(c *gin.Context) {
	notification, err := s.notifications.MarkRead(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}
