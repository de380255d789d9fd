package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mathlearn-service/internal/service"
)

type ReportHandler struct {
	Service *service.ReportService
}

func NewReportHandler(s *service.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// StudentOverview feeds the student dashboard: one row per active
// assignment with progress counters.
func (h *ReportHandler) StudentOverview(c *gin.Context) {
	reports, err := h.Service.StudentOverview(context.Background(), c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// SubtopicReport is the teacher's per-assignment view: accuracy by
// difficulty and practice days.
func (h *ReportHandler) SubtopicReport(c *gin.Context) {
	report, err := h.Service.StudentSubtopicReport(context.Background(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		case errors.Is(err, service.ErrTopicNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		case errors.Is(err, service.ErrNoSubtopic):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment has no sub-topic"})
		case errors.Is(err, service.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Student is not enrolled in this assignment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
