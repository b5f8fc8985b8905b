package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizrally/internal/model"
)

// ResultRepo archives final game results in MongoDB.
type ResultRepo interface {
	Save(ctx context.Context, result *model.GameResult) error
	GetByRoomCode(ctx context.Context, code string) (*model.GameResult, error)
	GetRecent(ctx context.Context, limit int) ([]*model.GameResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("results"),
	}
}

func (r *resultRepo) Save(ctx context.Context, result *model.GameResult) error {
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"roomCode": result.RoomCode}, result, opts)
	return err
}

func (r *resultRepo) GetByRoomCode(ctx context.Context, code string) (*model.GameResult, error) {
	var result model.GameResult
	err := r.collection.FindOne(ctx, bson.M{"roomCode": code}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) GetRecent(ctx context.Context, limit int) ([]*model.GameResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "finishedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.GameResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
