package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
	"mathlearn-service/internal/repository"
)

// Assignments are created two weeks out when no deadline is given.
const defaultAssignmentWindow = 14 * 24 * time.Hour

type AssignmentService struct {
	Assignments *repository.AssignmentRepository
	Topics      *repository.TopicRepository
}

func NewAssignmentService(assignments *repository.AssignmentRepository, topics *repository.TopicRepository) *AssignmentService {
	return &AssignmentService{Assignments: assignments, Topics: topics}
}

// CreateAssignment binds students to one sub-topic of a topic. The
// document shape allows several sub-topics but the engines act on the
// first only, so creation enforces the singleton.
func (s *AssignmentService) CreateAssignment(ctx context.Context, teacherID, topicID, subTopic string, students []string, deadline time.Time) (*models.Assignment, error) {
	if subTopic == "" {
		return nil, ErrNoSubtopic
	}
	if len(students) == 0 {
		return nil, fmt.Errorf("assignment requires at least one student")
	}
	if _, err := s.Topics.FindByID(ctx, topicID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if deadline.IsZero() {
		deadline = time.Now().Add(defaultAssignmentWindow)
	}

	assignment := &models.Assignment{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		Students:  students,
		TopicID:   topicID,
		SubTopics: []string{subTopic},
		Deadline:  deadline,
		Status:    models.AssignmentActive,
		CreatedAt: time.Now(),
	}
	if err := s.Assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return assignment, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.Assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListForStudent(ctx context.Context, studentID string) ([]models.Assignment, error) {
	return s.Assignments.FindActiveForStudent(ctx, studentID)
}

func (s *AssignmentService) ListForTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	return s.Assignments.FindByTeacher(ctx, teacherID)
}

func (s *AssignmentService) SetStatus(ctx context.Context, id, status string) error {
	if status != models.AssignmentActive && status != models.AssignmentArchived {
		return fmt.Errorf("invalid status %q", status)
	}
	if _, err := s.GetAssignment(ctx, id); err != nil {
		return err
	}
	return s.Assignments.Update(ctx, id, bson.M{"status": status})
}

func (s *AssignmentService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.Topics.FindAll(ctx)
}

func (s *AssignmentService) CreateTopic(ctx context.Context, name string, subTopics []string) (*models.Topic, error) {
	if name == "" {
		return nil, fmt.Errorf("topic requires a name")
	}
	topic := &models.Topic{
		ID:        uuid.NewString(),
		Name:      name,
		SubTopics: subTopics,
	}
	if err := s.Topics.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return topic, nil
}

// ResumeOrCreate finds the student's active assignment for a
// (topic, sub_topic) pair, creating one with the default deadline when
// none exists. Used by the dashboard's resume button.
func (s *AssignmentService) ResumeOrCreate(ctx context.Context, studentID, topicName, subTopic string) (*models.Assignment, error) {
	topic, err := s.Topics.FindByName(ctx, topicName)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("load topic: %w", err)
	}

	assignment, err := s.Assignments.FindActiveForStudentScope(ctx, studentID, topic.ID, subTopic)
	if err == nil {
		return assignment, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find assignment: %w", err)
	}

	assignment = &models.Assignment{
		ID:        uuid.NewString(),
		Students:  []string{studentID},
		TopicID:   topic.ID,
		SubTopics: []string{subTopic},
		Deadline:  time.Now().Add(defaultAssignmentWindow),
		Status:    models.AssignmentActive,
		CreatedAt: time.Now(),
	}
	if err := s.Assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return assignment, nil
}
