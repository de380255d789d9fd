package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/repository"
)

// AssignmentReport is one row of the student dashboard: position in a
// single assignment's pool plus its deadline.
type AssignmentReport struct {
	AssignmentID   string    `json:"assignment_id"`
	Topic          string    `json:"topic"`
	SubTopic       string    `json:"sub_topic"`
	TotalQuestions int       `json:"total_questions"`
	Attempted      int       `json:"attempted"`
	Correct        int       `json:"correct"`
	Deadline       time.Time `json:"deadline"`
	Completed      bool      `json:"completed"`
}

// SubtopicReport is the teacher view of one student's work in one
// assignment: accuracy split by difficulty plus the days practiced.
type SubtopicReport struct {
	AssignmentID string              `json:"assignment_id"`
	Topic        string              `json:"topic"`
	SubTopic     string              `json:"sub_topic"`
	Accuracy     map[string]Accuracy `json:"accuracy"`
	PracticeDays []string            `json:"practice_days"`
}

// ReportService composes progress data into the dashboard and teacher
// report shapes. It is a thin consumer of the progress engine.
type ReportService struct {
	Assignments *repository.AssignmentRepository
	Topics      *repository.TopicRepository
	Questions   *repository.QuestionRepository
	Responses   *repository.ResponseRepository
	Progress    *ProgressService
}

func NewReportService(
	assignments *repository.AssignmentRepository,
	topics *repository.TopicRepository,
	questions *repository.QuestionRepository,
	responses *repository.ResponseRepository,
	progress *ProgressService,
) *ReportService {
	return &ReportService{
		Assignments: assignments,
		Topics:      topics,
		Questions:   questions,
		Responses:   responses,
		Progress:    progress,
	}
}

// StudentOverview builds one report row per active assignment. Assignments
// with a missing topic or no sub-topic are skipped rather than failing the
// whole dashboard.
func (s *ReportService) StudentOverview(ctx context.Context, studentID string) ([]AssignmentReport, error) {
	assignments, err := s.Assignments.FindActiveForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	reports := make([]AssignmentReport, 0, len(assignments))
	for _, assignment := range assignments {
		topic, err := s.Topics.FindByID(ctx, assignment.TopicID)
		if err != nil {
			continue
		}
		subTopic, ok := assignment.PrimarySubTopic()
		if !ok {
			continue
		}

		progress, err := s.Progress.AssignmentProgress(ctx, assignment.ID, studentID)
		if err != nil {
			return nil, err
		}

		reports = append(reports, AssignmentReport{
			AssignmentID:   assignment.ID,
			Topic:          topic.Name,
			SubTopic:       subTopic,
			TotalQuestions: progress.Total,
			Attempted:      progress.Attempted,
			Correct:        progress.Correct,
			Deadline:       assignment.Deadline,
			Completed:      progress.Total > 0 && progress.Attempted == progress.Total,
		})
	}
	return reports, nil
}

// StudentSubtopicReport builds the per-difficulty accuracy table for one
// (student, assignment) pair along with the distinct days the student
// practiced, derived from response timestamps.
func (s *ReportService) StudentSubtopicReport(ctx context.Context, assignmentID, studentID string) (*SubtopicReport, error) {
	assignment, err := s.Assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	topic, err := s.Topics.FindByID(ctx, assignment.TopicID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("load topic: %w", err)
	}
	subTopic, ok := assignment.PrimarySubTopic()
	if !ok {
		return nil, ErrNoSubtopic
	}

	accuracy, err := s.Progress.AccuracyBreakdown(ctx, assignmentID, studentID)
	if err != nil {
		return nil, err
	}

	responses, err := s.Responses.FindByStudentAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	daySet := make(map[string]struct{})
	for _, r := range responses {
		if !r.Timestamp.IsZero() {
			daySet[r.Timestamp.Format("2006-01-02")] = struct{}{}
		}
	}
	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Strings(days)

	return &SubtopicReport{
		AssignmentID: assignmentID,
		Topic:        topic.Name,
		SubTopic:     subTopic,
		Accuracy:     accuracy,
		PracticeDays: days,
	}, nil
}
