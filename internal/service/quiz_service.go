package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/adaptive"
	"mathlearn-service/internal/cache"
	"mathlearn-service/internal/models"
)

type SessionStore interface {
	FindByID(ctx context.Context, id string) (*models.QuizSession, error)
	Create(ctx context.Context, session *models.QuizSession) error
	Update(ctx context.Context, id string, update bson.M) error
}

// QuizService orchestrates the adaptive ladder around the path engine.
// The engine stays stateless per call; the path state lives on the
// quiz_sessions document and is reloaded on every round trip.
type QuizService struct {
	Sessions  SessionStore
	Questions QuestionStore
	poolCache *cache.PoolCache
	engine    *adaptive.Engine
}

func NewQuizService(sessions SessionStore, questions QuestionStore, poolCache *cache.PoolCache, engine *adaptive.Engine) *QuizService {
	if engine == nil {
		engine = adaptive.NewEngine(nil, nil)
	}
	return &QuizService{
		Sessions:  sessions,
		Questions: questions,
		poolCache: poolCache,
		engine:    engine,
	}
}

// StartSession creates a session at the start of the ladder. No block is
// served yet; the first NextBlock call selects the initial Medium block.
func (s *QuizService) StartSession(ctx context.Context, studentID, topic, subTopic string) (*models.QuizSession, error) {
	state := adaptive.NewPathState()
	now := time.Now()
	session := &models.QuizSession{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Topic:     topic,
		SubTopic:  subTopic,
		Stage:     string(state.Stage),
		Level:     state.Level,
		Status:    models.SessionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// NextBlock advances the session's path using the score from the block the
// student just finished and returns the next block of questions. A
// completed path always yields an empty block.
func (s *QuizService) NextBlock(ctx context.Context, sessionID string, score, attempted int) (*models.QuizSession, []models.Question, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	pool, err := s.loadPool(ctx, session.Topic, session.SubTopic)
	if err != nil {
		return nil, nil, err
	}

	state := pathStateOf(session)
	block := s.engine.NextQuestions(state, pool, score, attempted)

	session.Stage = string(state.Stage)
	session.Level = state.Level
	session.UpdatedAt = time.Now()
	if s.engine.IsCompleted(state) {
		session.Status = models.SessionCompleted
	}

	update := bson.M{
		"stage":      session.Stage,
		"level":      session.Level,
		"status":     session.Status,
		"updated_at": session.UpdatedAt,
	}
	if err := s.Sessions.Update(ctx, sessionID, update); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}
	return session, block, nil
}

// Report produces the terminal recommendation for the session's path.
func (s *QuizService) Report(ctx context.Context, sessionID string, finalScore, totalQuestions int) (*adaptive.Report, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.engine.GenerateReport(pathStateOf(session), finalScore, totalQuestions), nil
}

// ResetSession puts the path back at the start of the ladder.
func (s *QuizService) ResetSession(ctx context.Context, sessionID string) (*models.QuizSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := pathStateOf(session)
	s.engine.Reset(state)

	session.Stage = string(state.Stage)
	session.Level = state.Level
	session.Status = models.SessionActive
	session.UpdatedAt = time.Now()

	update := bson.M{
		"stage":      session.Stage,
		"level":      session.Level,
		"status":     session.Status,
		"updated_at": session.UpdatedAt,
	}
	if err := s.Sessions.Update(ctx, sessionID, update); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *QuizService) loadSession(ctx context.Context, sessionID string) (*models.QuizSession, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func (s *QuizService) loadPool(ctx context.Context, topic, subTopic string) ([]models.Question, error) {
	if pool, ok := s.poolCache.Get(ctx, topic, subTopic); ok {
		return pool, nil
	}
	pool, err := s.Questions.FindByTopicSubTopic(ctx, topic, subTopic)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}
	s.poolCache.Set(ctx, topic, subTopic, pool)
	return pool, nil
}

func pathStateOf(session *models.QuizSession) *adaptive.PathState {
	return &adaptive.PathState{
		Stage: adaptive.Stage(session.Stage),
		Level: session.Level,
	}
}
