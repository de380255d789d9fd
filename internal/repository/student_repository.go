package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
)

type StudentRepository struct {
	Col *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{Col: db.Collection("students")}
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	var student models.Student
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var students []models.Student
	if err := cur.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	_, err := r.Col.InsertOne(ctx, student)
	return err
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
