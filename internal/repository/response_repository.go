package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mathlearn-service/internal/models"
)

type ResponseRepository struct {
	Col *mongo.Collection
}

func NewResponseRepository(db *mongo.Database) *ResponseRepository {
	return &ResponseRepository{Col: db.Collection("responses")}
}

// Upsert writes the response keyed by (student, assignment, question).
// A later answer to the same question replaces the earlier one; no answer
// history is kept.
func (r *ResponseRepository) Upsert(ctx context.Context, resp *models.Response) error {
	filter := bson.M{
		"student_id":    resp.StudentID,
		"assignment_id": resp.AssignmentID,
		"question_id":   resp.QuestionID,
	}
	update := bson.M{
		"$set": bson.M{
			"student_id":      resp.StudentID,
			"assignment_id":   resp.AssignmentID,
			"question_id":     resp.QuestionID,
			"selected_option": resp.SelectedOption,
			"is_correct":      resp.IsCorrect,
			"timestamp":       resp.Timestamp,
		},
		// String _id on first insert so documents decode back into the
		// string-keyed model.
		"$setOnInsert": bson.M{"_id": uuid.NewString()},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ResponseRepository) FindByStudentAssignment(ctx context.Context, studentID, assignmentID string) ([]models.Response, error) {
	cur, err := r.Col.Find(ctx, bson.M{
		"student_id":    studentID,
		"assignment_id": assignmentID,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var responses []models.Response
	if err := cur.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// AnsweredQuestionIDs returns the distinct question ids this student has
// answered within the assignment.
func (r *ResponseRepository) AnsweredQuestionIDs(ctx context.Context, studentID, assignmentID string) ([]string, error) {
	values, err := r.Col.Distinct(ctx, "question_id", bson.M{
		"student_id":    studentID,
		"assignment_id": assignmentID,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
