package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/falahalshidi/shrfa-app/internal/logger"
)

// Guard implements the server-side atomic quota check on Redis. The key for
// (user, day) is seeded from the authoritative booking sum the first time it
// is touched, then INCRBY claims tickets atomically, so two racing purchases
// cannot both slip under the cap.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewGuard(client *redis.Client, ttl time.Duration, log *logger.Logger) *Guard {
	return &Guard{client: client, ttl: ttl, logger: log}
}

func quotaKey(userID, date string) string {
	return fmt.Sprintf("quota:%s:%s", userID, date)
}

func (g *Guard) Reserve(ctx context.Context, userID, date string, quantity, seed int) (bool, int, error) {
	key := quotaKey(userID, date)

	// Seed from the DB sum so a restarted or expired key does not undercount.
	if err := g.client.SetNX(ctx, key, seed, g.ttl).Err(); err != nil {
		return false, 0, err
	}

	total, err := g.client.IncrBy(ctx, key, int64(quantity)).Result()
	if err != nil {
		return false, 0, err
	}

	if total > DailyCap {
		if err := g.client.DecrBy(ctx, key, int64(quantity)).Err(); err != nil {
			g.logger.Error("QUOTA", fmt.Sprintf("failed to roll back over-cap reservation for %s: %v", key, err))
		}
		available := DailyCap - (int(total) - quantity)
		if available < 0 {
			available = 0
		}
		return false, available, nil
	}

	return true, DailyCap - int(total), nil
}

func (g *Guard) Release(ctx context.Context, userID, date string, quantity int) {
	key := quotaKey(userID, date)
	if err := g.client.DecrBy(ctx, key, int64(quantity)).Err(); err != nil {
		g.logger.Error("QUOTA", fmt.Sprintf("failed to release reservation for %s: %v", key, err))
	}
}
