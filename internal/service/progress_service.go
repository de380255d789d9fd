package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
)

// Store contracts the progress engine depends on. The Mongo repositories
// satisfy them; tests substitute in-memory fakes.
type AssignmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
}

type TopicStore interface {
	FindByID(ctx context.Context, id string) (*models.Topic, error)
}

type QuestionStore interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindByTopicSubTopic(ctx context.Context, topic, subTopic string) ([]models.Question, error)
}

type ResponseStore interface {
	Upsert(ctx context.Context, resp *models.Response) error
	AnsweredQuestionIDs(ctx context.Context, studentID, assignmentID string) ([]string, error)
	FindByStudentAssignment(ctx context.Context, studentID, assignmentID string) ([]models.Response, error)
}

// ProgressService tracks which questions a student has answered within an
// assignment's (topic, sub_topic) scope and serves the next unanswered
// one. It holds no per-call state; every decision is re-derived from the
// stored responses, so a resumed session picks up exactly where the
// records say it should.
type ProgressService struct {
	Assignments AssignmentStore
	Topics      TopicStore
	Questions   QuestionStore
	Responses   ResponseStore
}

func NewProgressService(assignments AssignmentStore, topics TopicStore, questions QuestionStore, responses ResponseStore) *ProgressService {
	return &ProgressService{
		Assignments: assignments,
		Topics:      topics,
		Questions:   questions,
		Responses:   responses,
	}
}

// Progress summarizes a student's position in one assignment.
type Progress struct {
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Accuracy is the correct/attempted breakdown for one difficulty.
type Accuracy struct {
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Percent   float64 `json:"percent"`
}

// resolveScope maps an assignment id to its (topic name, sub-topic) pair,
// reporting each missing link as its own error.
func (s *ProgressService) resolveScope(ctx context.Context, assignmentID string) (*models.Assignment, string, string, error) {
	assignment, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", "", ErrAssignmentNotFound
		}
		return nil, "", "", fmt.Errorf("load assignment: %w", err)
	}

	topic, err := s.Topics.FindByID(ctx, assignment.TopicID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", "", ErrTopicNotFound
		}
		return nil, "", "", fmt.Errorf("load topic: %w", err)
	}

	subTopic, ok := assignment.PrimarySubTopic()
	if !ok {
		return nil, "", "", ErrNoSubtopic
	}

	return assignment, topic.Name, subTopic, nil
}

// GetCurrentQuestion returns the earliest pool-order question the student
// has not answered yet, or ErrSubtopicComplete once the pool is exhausted.
// The answered set is re-derived on every call, so an answer submitted
// from another tab is observed immediately.
func (s *ProgressService) GetCurrentQuestion(ctx context.Context, assignmentID, studentID string) (*models.Question, error) {
	assignment, topicName, subTopic, err := s.resolveScope(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.HasStudent(studentID) {
		return nil, ErrNotEnrolled
	}

	pool, err := s.Questions.FindByTopicSubTopic(ctx, topicName, subTopic)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	answered, err := s.Responses.AnsweredQuestionIDs(ctx, studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("load answered set: %w", err)
	}
	answeredSet := make(map[string]struct{}, len(answered))
	for _, id := range answered {
		answeredSet[id] = struct{}{}
	}

	for i := range pool {
		if _, ok := answeredSet[pool[i].ID]; !ok {
			return &pool[i], nil
		}
	}
	return nil, ErrSubtopicComplete
}

// UpdateResponse upserts the student's answer keyed by
// (student, assignment, question). Correctness is re-derived from the
// stored question document; the caller only names the option it picked.
// Re-answering replaces the earlier response and its timestamp.
func (s *ProgressService) UpdateResponse(ctx context.Context, assignmentID, studentID, questionID, optionID string) (*models.Response, error) {
	assignment, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	if !assignment.HasStudent(studentID) {
		return nil, ErrNotEnrolled
	}

	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	option, ok := question.OptionByID(optionID)
	if !ok {
		return nil, ErrOptionNotFound
	}

	resp := &models.Response{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		QuestionID:   questionID,
		SelectedOption: models.SelectedOption{
			OptionID: option.ID,
			Text:     option.Text,
		},
		IsCorrect: option.IsCorrect,
		Timestamp: time.Now(),
	}
	if err := s.Responses.Upsert(ctx, resp); err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}
	return resp, nil
}

// CheckSubtopicCompletion reports whether every question in the
// assignment's pool has been answered by this student. An empty pool
// counts as complete.
func (s *ProgressService) CheckSubtopicCompletion(ctx context.Context, assignmentID, studentID string) (bool, error) {
	assignment, topicName, subTopic, err := s.resolveScope(ctx, assignmentID)
	if err != nil {
		return false, err
	}
	if !assignment.HasStudent(studentID) {
		return false, ErrNotEnrolled
	}

	pool, err := s.Questions.FindByTopicSubTopic(ctx, topicName, subTopic)
	if err != nil {
		return false, fmt.Errorf("load question pool: %w", err)
	}

	answered, err := s.Responses.AnsweredQuestionIDs(ctx, studentID, assignmentID)
	if err != nil {
		return false, fmt.Errorf("load answered set: %w", err)
	}
	answeredSet := make(map[string]struct{}, len(answered))
	for _, id := range answered {
		answeredSet[id] = struct{}{}
	}

	for _, q := range pool {
		if _, ok := answeredSet[q.ID]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// AssignmentProgress counts attempted/correct against the pool size.
// Responses to questions outside the current pool are ignored.
func (s *ProgressService) AssignmentProgress(ctx context.Context, assignmentID, studentID string) (*Progress, error) {
	assignment, topicName, subTopic, err := s.resolveScope(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.HasStudent(studentID) {
		return nil, ErrNotEnrolled
	}

	pool, err := s.Questions.FindByTopicSubTopic(ctx, topicName, subTopic)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}
	poolIDs := make(map[string]struct{}, len(pool))
	for _, q := range pool {
		poolIDs[q.ID] = struct{}{}
	}

	responses, err := s.Responses.FindByStudentAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	progress := &Progress{Total: len(pool)}
	for _, r := range responses {
		if _, ok := poolIDs[r.QuestionID]; !ok {
			continue
		}
		progress.Attempted++
		if r.IsCorrect {
			progress.Correct++
		}
	}
	if progress.Total > 0 {
		progress.Percent = float64(progress.Attempted) / float64(progress.Total) * 100
	}
	return progress, nil
}

// AccuracyBreakdown joins the student's responses to their questions'
// difficulty and aggregates 100*correct/attempted per difficulty. A
// difficulty with no attempts reports zero.
func (s *ProgressService) AccuracyBreakdown(ctx context.Context, assignmentID, studentID string) (map[string]Accuracy, error) {
	assignment, topicName, subTopic, err := s.resolveScope(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.HasStudent(studentID) {
		return nil, ErrNotEnrolled
	}

	pool, err := s.Questions.FindByTopicSubTopic(ctx, topicName, subTopic)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}
	difficultyByID := make(map[string]string, len(pool))
	for _, q := range pool {
		difficultyByID[q.ID] = q.Difficulty
	}

	responses, err := s.Responses.FindByStudentAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	breakdown := map[string]Accuracy{
		models.DifficultyEasy:   {},
		models.DifficultyMedium: {},
		models.DifficultyHard:   {},
	}
	for _, r := range responses {
		difficulty, ok := difficultyByID[r.QuestionID]
		if !ok {
			continue
		}
		acc := breakdown[difficulty]
		acc.Attempted++
		if r.IsCorrect {
			acc.Correct++
		}
		breakdown[difficulty] = acc
	}
	for difficulty, acc := range breakdown {
		if acc.Attempted > 0 {
			acc.Percent = float64(acc.Correct) / float64(acc.Attempted) * 100
			breakdown[difficulty] = acc
		}
	}
	return breakdown, nil
}
