package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizrally/internal/model"
)

// StateCache persists full room snapshots in Redis. Each save rewrites the
// whole snapshot and refreshes the TTL, so an abandoned room expires on its
// own.
type StateCache interface {
	Load(ctx context.Context, code string) (*model.RoomState, error)
	Save(ctx context.Context, state *model.RoomState) error
	Purge(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateCache creates a new room snapshot cache.
func NewStateCache(client *redis.Client, ttl time.Duration) StateCache {
	return &stateCache{client: client, ttl: ttl}
}

func (c *stateCache) key(code string) string {
	return fmt.Sprintf("room:%s:state", code)
}

func (c *stateCache) Load(ctx context.Context, code string) (*model.RoomState, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.RoomState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *stateCache) Save(ctx context.Context, state *model.RoomState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(state.Code), data, c.ttl).Err()
}

func (c *stateCache) Purge(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

func (c *stateCache) Exists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(code)).Result()
	return n > 0, err
}
