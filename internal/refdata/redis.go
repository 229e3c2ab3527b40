package refdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultULNSetKey is the Redis set holding issued ULNs.
const DefaultULNSetKey = "ilr:uln"

// SetReader reads a Redis set. Implemented by *redis.Client.
type SetReader interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// LoadULNsFromRedis reads every member of the ULN set at key.
// A missing key is an empty set.
func LoadULNsFromRedis(ctx context.Context, client SetReader, key string) ([]int64, error) {
	if key == "" {
		key = DefaultULNSetKey
	}
	members, err := client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read ULN set %s: %w", key, err)
	}

	ulns := make([]int64, 0, len(members))
	for _, m := range members {
		uln, err := strconv.ParseInt(strings.TrimSpace(m), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidULN, m)
		}
		ulns = append(ulns, uln)
	}
	return ulns, nil
}

// NewRedisClient opens a client for addr. The caller closes it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
