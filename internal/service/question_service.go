package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/cache"
	"mathlearn-service/internal/models"
	"mathlearn-service/internal/repository"
)

// QuestionService manages the question bank. Every write invalidates the
// cached pool for the affected (topic, sub_topic) scope.
type QuestionService struct {
	Questions *repository.QuestionRepository
	poolCache *cache.PoolCache
}

func NewQuestionService(questions *repository.QuestionRepository, poolCache *cache.PoolCache) *QuestionService {
	return &QuestionService{Questions: questions, poolCache: poolCache}
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

// ListQuestions filters the bank by any combination of topic, sub-topic
// and difficulty.
func (s *QuestionService) ListQuestions(ctx context.Context, topic, subTopic, difficulty string) ([]models.Question, error) {
	filter := bson.M{}
	if topic != "" {
		filter["topic"] = topic
	}
	if subTopic != "" {
		filter["sub_topic"] = subTopic
	}
	if difficulty != "" {
		filter["difficulty"] = difficulty
	}
	return s.Questions.Find(ctx, filter)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := question.Validate(); err != nil {
		return err
	}
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if err := s.Questions.Create(ctx, question); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	s.poolCache.Invalidate(ctx, question.Topic, question.SubTopic)
	return nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, question *models.Question) error {
	if err := question.Validate(); err != nil {
		return err
	}
	existing, err := s.GetQuestion(ctx, id)
	if err != nil {
		return err
	}

	update := bson.M{
		"topic":       question.Topic,
		"sub_topic":   question.SubTopic,
		"difficulty":  question.Difficulty,
		"description": question.Description,
		"options":     question.Options,
		"solution":    question.Solution,
	}
	if err := s.Questions.Update(ctx, id, update); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	s.poolCache.Invalidate(ctx, existing.Topic, existing.SubTopic)
	s.poolCache.Invalidate(ctx, question.Topic, question.SubTopic)
	return nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	existing, err := s.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Questions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.poolCache.Invalidate(ctx, existing.Topic, existing.SubTopic)
	return nil
}
