package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for the live leaderboard.
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, code, name string, score int) error
	GetTop(ctx context.Context, code string, limit int) ([]LeaderboardRow, error)
	Purge(ctx context.Context, code string) error
}

// LeaderboardRow is a single ranked entry.
type LeaderboardRow struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache.
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) LeaderboardCache {
	return &leaderboardCache{client: client, ttl: ttl}
}

func (c *leaderboardCache) key(code string) string {
	return fmt.Sprintf("room:%s:lb", code)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, code, name string, score int) error {
	key := c.key(code)
	if err := c.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(score),
		Member: name,
	}).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, code string, limit int) ([]LeaderboardRow, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(code), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	rows := make([]LeaderboardRow, len(results))
	for i, z := range results {
		rows[i] = LeaderboardRow{
			Name:  z.Member.(string),
			Score: int(z.Score),
			Rank:  i + 1,
		}
	}
	return rows, nil
}

func (c *leaderboardCache) Purge(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
