package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
)

type ResetRepository struct {
	Col *mongo.Collection
}

func NewResetRepository(db *mongo.Database) *ResetRepository {
	return &ResetRepository{Col: db.Collection("password_resets")}
}

func (r *ResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	_, err := r.Col.InsertOne(ctx, reset)
	return err
}

func (r *ResetRepository) FindByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.Col.FindOne(ctx, bson.M{"token": token}).Decode(&reset)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *ResetRepository) MarkUsed(ctx context.Context, token string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"token": token}, bson.M{"$set": bson.M{"used": true}})
	return err
}
