package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/search"
	"github.com/poiesic/pharmainspect/storage"
)

func (s *Server) listRecords(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		s.failure(c, err)
		return
	}
	perPage, err := intQuery(c, "per_page", storage.DefaultPerPage)
	if err != nil {
		s.failure(c, err)
		return
	}

	result, err := s.records.ListRecords(c.Request.Context(), storage.ListQuery{
		Page:    page,
		PerPage: perPage,
		Search:  c.Query("search"),
	})
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) searchRecords(c *gin.Context) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	records, err := s.records.SearchRecords(c.Request.Context(), search.CriteriaFromWire(params))
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) getRecord(c *gin.Context) {
	record, err := s.records.GetRecord(c.Request.Context(), core.ID(c.Param("id")))
	if err != nil {
		s.failure(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) createRecord(c *gin.Context) {
	var req core.NewRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failure(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	added, err := s.records.AddRecords(c.Request.Context(), req.Record())
	if err != nil {
		s.failure(c, err)
		return
	}
	record := added[0]
	s.metrics.recordOp("create")

	if s.notifier != nil {
		if err := s.notifier.RecordCreated(record); err != nil {
			s.logger.Warn("error queueing record notification", "record", record.ID, "err", err)
		}
	}

	c.JSON(http.StatusCreated, record)
}

func (s *Server) updateRecord(c *gin.Context) {
	var patch core.RecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.failure(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	record, err := s.records.UpdateRecord(c.Request.Context(), core.ID(c.Param("id")), &patch)
	if err != nil {
		s.failure(c, err)
		return
	}
	s.metrics.recordOp("update")
	c.JSON(http.StatusOK, record)
}

func (s *Server) deleteRecord(c *gin.Context) {
	if err := s.records.DeleteRecords(c.Request.Context(), core.ID(c.Param("id"))); err != nil {
		s.failure(c, err)
		return
	}
	s.metrics.recordOp("delete")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Record deleted successfully",
	})
}

func (s *Server) recordAttachments(c *gin.Context) {
	ctx := c.Request.Context()
	id := core.ID(c.Param("id"))
	if _, err := s.records.GetRecord(ctx, id); err != nil {
		s.failure(c, err)
		return
	}
	attachments, err := s.attachments.GetAttachmentsByRecord(ctx, id)
	if err != nil {
		s.failure(c, err)
		return
	}
	if attachments == nil {
		attachments = []*core.Attachment{}
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return v, nil
}
