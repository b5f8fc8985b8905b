package game

import (
	"context"
	"time"

	"quizrally/internal/model"
)

// Sink is one connected peer. Send failures are best-effort and never abort
// the surrounding state transition.
type Sink interface {
	Send(data []byte) error
	Close(reason string)
}

// StateStore is the durable key-value snapshot of room state. The room actor
// is the only component reading or writing it.
type StateStore interface {
	// Load returns (nil, nil) when no snapshot exists.
	Load(ctx context.Context, code string) (*model.RoomState, error)
	Save(ctx context.Context, state *model.RoomState) error
	Purge(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
}

// WakeScheduler arms at most one single-shot wake-up per room. Schedule
// replaces any pending wake.
type WakeScheduler interface {
	Schedule(at time.Time)
	Cancel()
}

// LeaderboardSink mirrors cumulative scores for the host leaderboard endpoint.
type LeaderboardSink interface {
	UpdateScore(ctx context.Context, code, name string, score int) error
	Purge(ctx context.Context, code string) error
}

// Archiver records room lifecycle events durably, outside the game's own
// snapshot. All calls are best-effort.
type Archiver interface {
	RoomCreated(ctx context.Context, rec *model.RoomRecord) error
	RoomStatus(ctx context.Context, code, status string) error
	SaveResult(ctx context.Context, res *model.GameResult) error
}
