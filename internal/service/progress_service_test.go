package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
)

// In-memory stores standing in for the Mongo repositories. They return
// mongo.ErrNoDocuments the way the driver does so the services' errors.Is
// mapping is exercised for real.

type fakeAssignments struct {
	byID map[string]*models.Assignment
}

func (f *fakeAssignments) FindByID(_ context.Context, id string) (*models.Assignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return a, nil
}

type fakeTopics struct {
	byID map[string]*models.Topic
}

func (f *fakeTopics) FindByID(_ context.Context, id string) (*models.Topic, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return t, nil
}

type fakeQuestions struct {
	pool []models.Question
}

func (f *fakeQuestions) FindByID(_ context.Context, id string) (*models.Question, error) {
	for i := range f.pool {
		if f.pool[i].ID == id {
			return &f.pool[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeQuestions) FindByTopicSubTopic(_ context.Context, topic, subTopic string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.pool {
		if q.Topic == topic && q.SubTopic == subTopic {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeResponses struct {
	// keyed by student|assignment|question, matching the upsert identity
	byKey map[string]*models.Response
}

func newFakeResponses() *fakeResponses {
	return &fakeResponses{byKey: make(map[string]*models.Response)}
}

func responseKey(studentID, assignmentID, questionID string) string {
	return fmt.Sprintf("%s|%s|%s", studentID, assignmentID, questionID)
}

func (f *fakeResponses) Upsert(_ context.Context, resp *models.Response) error {
	clone := *resp
	f.byKey[responseKey(resp.StudentID, resp.AssignmentID, resp.QuestionID)] = &clone
	return nil
}

func (f *fakeResponses) AnsweredQuestionIDs(_ context.Context, studentID, assignmentID string) ([]string, error) {
	var ids []string
	for _, r := range f.byKey {
		if r.StudentID == studentID && r.AssignmentID == assignmentID {
			ids = append(ids, r.QuestionID)
		}
	}
	return ids, nil
}

func (f *fakeResponses) FindByStudentAssignment(_ context.Context, studentID, assignmentID string) ([]models.Response, error) {
	var out []models.Response
	for _, r := range f.byKey {
		if r.StudentID == studentID && r.AssignmentID == assignmentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func testQuestion(id, difficulty, correctOption string) models.Question {
	return models.Question{
		ID:          id,
		Topic:       "Algebra",
		SubTopic:    "Linear Equations",
		Difficulty:  difficulty,
		Description: "Solve for x",
		Options: []models.Option{
			{ID: "opt-a", Text: "1", IsCorrect: correctOption == "opt-a"},
			{ID: "opt-b", Text: "2", IsCorrect: correctOption == "opt-b"},
		},
	}
}

func newProgressFixture() (*ProgressService, *fakeResponses) {
	assignments := &fakeAssignments{byID: map[string]*models.Assignment{
		"asg-1": {
			ID:        "asg-1",
			Students:  []string{"stu-1"},
			TopicID:   "top-1",
			SubTopics: []string{"Linear Equations"},
		},
		"asg-empty": {
			ID:        "asg-empty",
			Students:  []string{"stu-1"},
			TopicID:   "top-1",
			SubTopics: []string{"Quadratics"},
		},
		"asg-no-sub": {
			ID:       "asg-no-sub",
			Students: []string{"stu-1"},
			TopicID:  "top-1",
		},
		"asg-bad-topic": {
			ID:        "asg-bad-topic",
			Students:  []string{"stu-1"},
			TopicID:   "missing",
			SubTopics: []string{"Linear Equations"},
		},
	}}
	topics := &fakeTopics{byID: map[string]*models.Topic{
		"top-1": {ID: "top-1", Name: "Algebra", SubTopics: []string{"Linear Equations", "Quadratics"}},
	}}
	questions := &fakeQuestions{pool: []models.Question{
		testQuestion("q-1", models.DifficultyEasy, "opt-a"),
		testQuestion("q-2", models.DifficultyMedium, "opt-b"),
		testQuestion("q-3", models.DifficultyHard, "opt-a"),
	}}
	responses := newFakeResponses()
	return NewProgressService(assignments, topics, questions, responses), responses
}

func TestGetCurrentQuestionErrorTaxonomy(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	tests := []struct {
		name         string
		assignmentID string
		wantErr      error
	}{
		{"missing assignment", "missing", ErrAssignmentNotFound},
		{"missing topic", "asg-bad-topic", ErrTopicNotFound},
		{"no sub-topic", "asg-no-sub", ErrNoSubtopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetCurrentQuestion(ctx, tt.assignmentID, "stu-1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProgressRejectsUnenrolledStudent(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	// stu-2 is not on asg-1's student list.
	if _, err := svc.GetCurrentQuestion(ctx, "asg-1", "stu-2"); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("GetCurrentQuestion: got %v, want ErrNotEnrolled", err)
	}
	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-2", "q-1", "opt-a"); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("UpdateResponse: got %v, want ErrNotEnrolled", err)
	}
	if _, err := svc.CheckSubtopicCompletion(ctx, "asg-1", "stu-2"); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("CheckSubtopicCompletion: got %v, want ErrNotEnrolled", err)
	}
	if _, err := svc.AssignmentProgress(ctx, "asg-1", "stu-2"); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("AssignmentProgress: got %v, want ErrNotEnrolled", err)
	}
	if _, err := svc.AccuracyBreakdown(ctx, "asg-1", "stu-2"); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("AccuracyBreakdown: got %v, want ErrNotEnrolled", err)
	}
}

func TestGetCurrentQuestionWalksPoolInOrder(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	q, err := svc.GetCurrentQuestion(ctx, "asg-1", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != "q-1" {
		t.Errorf("first question = %q, want q-1", q.ID)
	}

	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-1", "opt-a"); err != nil {
		t.Fatalf("record response: %v", err)
	}

	q, err = svc.GetCurrentQuestion(ctx, "asg-1", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != "q-2" {
		t.Errorf("next question = %q, want q-2", q.ID)
	}
}

func TestGetCurrentQuestionSkipsAnsweredOutOfOrder(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	// Answering a later question first must not hide the earlier one.
	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-2", "opt-a"); err != nil {
		t.Fatalf("record response: %v", err)
	}

	q, err := svc.GetCurrentQuestion(ctx, "asg-1", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != "q-1" {
		t.Errorf("question = %q, want q-1", q.ID)
	}
}

func TestGetCurrentQuestionCompletion(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	for _, id := range []string{"q-1", "q-2", "q-3"} {
		if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", id, "opt-a"); err != nil {
			t.Fatalf("record response %s: %v", id, err)
		}
	}

	if _, err := svc.GetCurrentQuestion(ctx, "asg-1", "stu-1"); !errors.Is(err, ErrSubtopicComplete) {
		t.Errorf("got %v, want ErrSubtopicComplete", err)
	}

	complete, err := svc.CheckSubtopicCompletion(ctx, "asg-1", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Error("completion = false, want true")
	}
}

func TestCheckSubtopicCompletionEmptyPool(t *testing.T) {
	svc, _ := newProgressFixture()

	complete, err := svc.CheckSubtopicCompletion(context.Background(), "asg-empty", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Error("empty pool should count as complete")
	}
}

func TestUpdateResponseDerivesCorrectness(t *testing.T) {
	svc, responses := newProgressFixture()
	ctx := context.Background()

	// q-2's correct option is opt-b.
	resp, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-2", "opt-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsCorrect {
		t.Error("is_correct = false for the correct option")
	}
	if resp.SelectedOption.OptionID != "opt-b" || resp.SelectedOption.Text != "2" {
		t.Errorf("selected option = %+v, want opt-b/2", resp.SelectedOption)
	}

	resp, err = svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-2", "opt-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.IsCorrect {
		t.Error("is_correct = true for a wrong option")
	}

	// Re-answering replaced the earlier record, not added a second.
	stored := responses.byKey[responseKey("stu-1", "asg-1", "q-2")]
	if stored == nil {
		t.Fatal("response not stored")
	}
	if stored.IsCorrect {
		t.Error("stored response kept the earlier correctness")
	}
	if len(responses.byKey) != 1 {
		t.Errorf("stored %d responses, want 1", len(responses.byKey))
	}
}

func TestUpdateResponseErrors(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	tests := []struct {
		name         string
		assignmentID string
		questionID   string
		optionID     string
		wantErr      error
	}{
		{"missing assignment", "missing", "q-1", "opt-a", ErrAssignmentNotFound},
		{"missing question", "asg-1", "missing", "opt-a", ErrQuestionNotFound},
		{"missing option", "asg-1", "q-1", "opt-z", ErrOptionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateResponse(ctx, tt.assignmentID, "stu-1", tt.questionID, tt.optionID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssignmentProgress(t *testing.T) {
	svc, responses := newProgressFixture()
	ctx := context.Background()

	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-1", "opt-a"); err != nil {
		t.Fatalf("record response: %v", err)
	}
	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-2", "opt-a"); err != nil {
		t.Fatalf("record response: %v", err)
	}

	// A response to a question outside the pool must be ignored.
	responses.byKey[responseKey("stu-1", "asg-1", "stray")] = &models.Response{
		StudentID:    "stu-1",
		AssignmentID: "asg-1",
		QuestionID:   "stray",
		IsCorrect:    true,
	}

	progress, err := svc.AssignmentProgress(ctx, "asg-1", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.Total != 3 {
		t.Errorf("total = %d, want 3", progress.Total)
	}
	if progress.Attempted != 2 {
		t.Errorf("attempted = %d, want 2", progress.Attempted)
	}
	if progress.Correct != 1 {
		t.Errorf("correct = %d, want 1", progress.Correct)
	}
	if want := 2.0 / 3.0 * 100; progress.Percent != want {
		t.Errorf("percent = %v, want %v", progress.Percent, want)
	}
}

func TestAccuracyBreakdown(t *testing.T) {
	svc, _ := newProgressFixture()
	ctx := context.Background()

	// q-1 Easy correct, q-2 Medium wrong. No Hard attempt.
	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-1", "opt-a"); err != nil {
		t.Fatalf("record response: %v", err)
	}
	if _, err := svc.UpdateResponse(ctx, "asg-1", "stu-1", "q-2", "opt-a"); err != nil {
		t.Fatalf("record response: %v", err)
	}

	breakdown, err := svc.AccuracyBreakdown(ctx, "asg-1", "stu-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	easy := breakdown[models.DifficultyEasy]
	if easy.Attempted != 1 || easy.Correct != 1 || easy.Percent != 100 {
		t.Errorf("easy = %+v, want 1/1 at 100%%", easy)
	}
	medium := breakdown[models.DifficultyMedium]
	if medium.Attempted != 1 || medium.Correct != 0 || medium.Percent != 0 {
		t.Errorf("medium = %+v, want 0/1 at 0%%", medium)
	}
	hard := breakdown[models.DifficultyHard]
	if hard.Attempted != 0 || hard.Percent != 0 {
		t.Errorf("hard = %+v, want untouched zero row", hard)
	}
}
