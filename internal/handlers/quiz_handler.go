package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mathlearn-service/internal/metrics"
	"mathlearn-service/internal/models"
	"mathlearn-service/internal/service"
)

// QuizHandler exposes the adaptive quiz flow: start, next block, report,
// reset. The UI tallies each block's score and posts it back when asking
// for the next one.
type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

func (h *QuizHandler) StartSession(c *gin.Context) {
	var req struct {
		Topic    string `json:"topic" binding:"required"`
		SubTopic string `json:"sub_topic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	studentID := c.GetString("userID")
	session, err := h.Service.StartSession(context.Background(), studentID, req.Topic, req.SubTopic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session", "details": err.Error()})
		return
	}

	metrics.SessionsStarted.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"session":   session,
		"next_step": "Call /next with your score to receive the first block",
	})
}

func (h *QuizHandler) NextBlock(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		Score     int `json:"score"`
		Attempted int `json:"attempted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	session, block, err := h.Service.NextBlock(context.Background(), sessionID, req.Score, req.Attempted)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select next block", "details": err.Error()})
		return
	}

	metrics.BlocksServed.WithLabelValues(session.Stage).Inc()
	c.JSON(http.StatusOK, gin.H{
		"session":   session,
		"questions": block,
		"completed": session.Status == models.SessionCompleted,
	})
}

func (h *QuizHandler) Report(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		Score int `json:"score"`
		Total int `json:"total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	report, err := h.Service.Report(context.Background(), sessionID, req.Score, req.Total)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report", "details": err.Error()})
		return
	}

	metrics.ReportsGenerated.Inc()
	c.JSON(http.StatusOK, report)
}

func (h *QuizHandler) ResetSession(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := h.Service.ResetSession(context.Background(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "message": "Session reset to the initial stage"})
}
