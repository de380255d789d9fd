package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mathlearn-service/internal/models"
)

type TopicRepository struct {
	Col *mongo.Collection
}

func NewTopicRepository(db *mongo.Database) *TopicRepository {
	return &TopicRepository{Col: db.Collection("topics")}
}

func (r *TopicRepository) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&topic)
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) FindByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	err := r.Col.FindOne(ctx, bson.M{"name": name}).Decode(&topic)
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) FindAll(ctx context.Context) ([]models.Topic, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var topics []models.Topic
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	_, err := r.Col.InsertOne(ctx, topic)
	return err
}
