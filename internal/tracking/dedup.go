package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper suppresses repeat opens from the same token and IP
// within a fixed window, using SETNX with a TTL as the window marker.
type RedisDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewRedisDeduper creates a deduper with the given suppression window.
func NewRedisDeduper(client *redis.Client, window time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, window: window}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, trackingID, ip string) (bool, error) {
	key := fmt.Sprintf("open:dedup:%s:%s", trackingID, ip)
	ok, err := d.client.SetNX(ctx, key, 1, d.window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup setnx %s: %w", key, err)
	}
	return ok, nil
}
