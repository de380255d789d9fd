package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
)

type AssignmentRepository struct {
	Col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{Col: db.Collection("assignments")}
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) FindActiveForStudent(ctx context.Context, studentID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{"students": studentID, "status": models.AssignmentActive})
}

func (r *AssignmentRepository) FindByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{"teacher_id": teacherID})
}

// FindActiveForStudentScope looks for an active assignment binding this
// student to exactly this (topic, sub_topic) pair.
func (r *AssignmentRepository) FindActiveForStudentScope(ctx context.Context, studentID, topicID, subTopic string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.Col.FindOne(ctx, bson.M{
		"students":   studentID,
		"topic_id":   topicID,
		"sub_topics": []string{subTopic},
		"status":     models.AssignmentActive,
	}).Decode(&assignment)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) find(ctx context.Context, filter bson.M) ([]models.Assignment, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var assignments []models.Assignment
	if err := cur.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	_, err := r.Col.InsertOne(ctx, assignment)
	return err
}

func (r *AssignmentRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}
