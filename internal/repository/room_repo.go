package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizrally/internal/model"
)

// RoomRepo archives room lifecycle records in MongoDB.
type RoomRepo interface {
	Create(ctx context.Context, room *model.RoomRecord) error
	GetByCode(ctx context.Context, code string) (*model.RoomRecord, error)
	UpdateStatus(ctx context.Context, code, status string) error
}

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{
		collection: db.Collection("rooms"),
	}
}

func (r *roomRepo) Create(ctx context.Context, room *model.RoomRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"code": room.Code}, room, opts)
	return err
}

func (r *roomRepo) GetByCode(ctx context.Context, code string) (*model.RoomRecord, error) {
	var room model.RoomRecord
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) UpdateStatus(ctx context.Context, code, status string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}
