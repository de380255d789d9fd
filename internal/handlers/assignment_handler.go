package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mathlearn-service/internal/metrics"
	"mathlearn-service/internal/service"
)

type AssignmentHandler struct {
	Assignments *service.AssignmentService
	Progress    *service.ProgressService
	Users       *service.UserService
}

func NewAssignmentHandler(assignments *service.AssignmentService, progress *service.ProgressService, users *service.UserService) *AssignmentHandler {
	return &AssignmentHandler{Assignments: assignments, Progress: progress, Users: users}
}

// studentID resolves the logged-in user's student record. Admin and
// teacher callers may act on behalf of a student via the query parameter.
func (h *AssignmentHandler) studentID(c *gin.Context) (string, bool) {
	if c.GetString("userRole") != "student" {
		if id := c.Query("student_id"); id != "" {
			return id, true
		}
	}
	student, err := h.Users.StudentForUser(context.Background(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student record not found"})
		return "", false
	}
	return student.ID, true
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req struct {
		TopicID  string   `json:"topic_id" binding:"required"`
		SubTopic string   `json:"sub_topic" binding:"required"`
		Students []string `json:"students" binding:"required"`
		Deadline string   `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	var deadline time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline must be YYYY-MM-DD"})
			return
		}
		deadline = parsed
	}

	assignment, err := h.Assignments.CreateAssignment(
		context.Background(),
		c.GetString("userID"),
		req.TopicID,
		req.SubTopic,
		req.Students,
		deadline,
	)
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create assignment", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.Assignments.GetAssignment(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	if c.GetString("userRole") == "teacher" {
		assignments, err := h.Assignments.ListForTeacher(context.Background(), c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list assignments"})
			return
		}
		c.JSON(http.StatusOK, assignments)
		return
	}

	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	assignments, err := h.Assignments.ListForStudent(context.Background(), studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list assignments"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if err := h.Assignments.SetStatus(context.Background(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update status", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment updated"})
}

func (h *AssignmentHandler) ListTopics(c *gin.Context) {
	topics, err := h.Assignments.ListTopics(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list topics"})
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h *AssignmentHandler) CreateTopic(c *gin.Context) {
	var req struct {
		Name      string   `json:"name" binding:"required"`
		SubTopics []string `json:"sub_topics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	topic, err := h.Assignments.CreateTopic(context.Background(), req.Name, req.SubTopics)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create topic", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// ResumeAssignment finds or creates the student's active assignment for a
// (topic, sub_topic) pair so the dashboard's resume button always lands
// somewhere.
func (h *AssignmentHandler) ResumeAssignment(c *gin.Context) {
	var req struct {
		Topic    string `json:"topic" binding:"required"`
		SubTopic string `json:"sub_topic" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	assignment, err := h.Assignments.ResumeOrCreate(context.Background(), studentID, req.Topic, req.SubTopic)
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resume assignment", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// CurrentQuestion serves the next unanswered question of the assignment's
// pool, or the completion signal once the pool is exhausted.
func (h *AssignmentHandler) CurrentQuestion(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}

	question, err := h.Progress.GetCurrentQuestion(context.Background(), c.Param("id"), studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubtopicComplete):
			c.JSON(http.StatusOK, gin.H{
				"completed": true,
				"message":   "You've completed all questions!",
			})
		case errors.Is(err, service.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		case errors.Is(err, service.ErrTopicNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		case errors.Is(err, service.ErrNoSubtopic):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment has no sub-topic"})
		case errors.Is(err, service.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Student is not enrolled in this assignment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load question", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": false, "question": question})
}

// SubmitResponse records the student's answer. Correctness comes from the
// stored question, never from the request body.
func (h *AssignmentHandler) SubmitResponse(c *gin.Context) {
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		OptionID   string `json:"option_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	studentID, ok := h.studentID(c)
	if !ok {
		return
	}

	response, err := h.Progress.UpdateResponse(context.Background(), c.Param("id"), studentID, req.QuestionID, req.OptionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		case errors.Is(err, service.ErrQuestionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		case errors.Is(err, service.ErrOptionNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Option not found on question"})
		case errors.Is(err, service.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Student is not enrolled in this assignment"})
		default:
			// Persistence failures surface as retryable.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save response. Please try again."})
		}
		return
	}

	metrics.ResponsesRecorded.WithLabelValues(strconv.FormatBool(response.IsCorrect)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"recorded":   true,
		"is_correct": response.IsCorrect,
	})
}

func (h *AssignmentHandler) Completion(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}

	complete, err := h.Progress.CheckSubtopicCompletion(context.Background(), c.Param("id"), studentID)
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
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check completion"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"complete": complete})
}

func (h *AssignmentHandler) AssignmentProgress(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}

	progress, err := h.Progress.AssignmentProgress(context.Background(), c.Param("id"), studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		case errors.Is(err, service.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Student is not enrolled in this assignment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, progress)
}
