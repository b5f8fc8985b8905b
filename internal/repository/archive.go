package repository

import (
	"context"

	"quizrally/internal/model"
)

// Archive bundles the Mongo repositories behind the game layer's archiver
// interface, so the game package never imports mongo directly.
type Archive struct {
	rooms   RoomRepo
	results ResultRepo
}

func NewArchive(rooms RoomRepo, results ResultRepo) *Archive {
	return &Archive{rooms: rooms, results: results}
}

func (a *Archive) RoomCreated(ctx context.Context, rec *model.RoomRecord) error {
	return a.rooms.Create(ctx, rec)
}

func (a *Archive) RoomStatus(ctx context.Context, code, status string) error {
	return a.rooms.UpdateStatus(ctx, code, status)
}

func (a *Archive) SaveResult(ctx context.Context, res *model.GameResult) error {
	return a.results.Save(ctx, res)
}
