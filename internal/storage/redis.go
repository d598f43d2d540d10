package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"resto-orders/internal/domain"
)

// UserCache keeps the acting-user projections used to enrich history reads.
// It is strictly best-effort; every failure degrades to a directory lookup
// or to a null user in the response.
type UserCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{Client: client, TTL: ttl}
}

func (c *UserCache) userKey(id int) string {
	return "user:" + strconv.Itoa(id)
}

func (c *UserCache) GetUser(ctx context.Context, id int) (*domain.UserProjection, error) {
	raw, err := c.Client.Get(ctx, c.userKey(id)).Result()
	if err != nil {
		return nil, err
	}
	var user domain.UserProjection
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *UserCache) SetUser(ctx context.Context, user domain.UserProjection) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.userKey(user.ID), raw, c.TTL).Err()
}
