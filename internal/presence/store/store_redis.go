package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resona/internal/presence"
	"resona/pkg/domain"
	"resona/pkg/platform/sentinel"
)

const (
	// Redis key prefix for presence rows.
	presenceKeyPrefix = "presence:"

	// Offline rows eventually expire; a user who never reconnects should not
	// occupy the cache forever. Online rows are refreshed on every write.
	presenceTTL = 30 * 24 * time.Hour
)

// Redis is a Redis-backed presence store. Recommended for deployments where
// the snapshot path is hot: presence is the most frequently read and most
// frequently overwritten row in the system, and a lost row only costs a
// reconnecting client its cached state.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Upsert(ctx context.Context, p presence.Presence) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal presence: %w", err)
	}
	key := presenceKeyPrefix + p.UserID.String()
	if err := s.client.Set(ctx, key, payload, presenceTTL).Err(); err != nil {
		return fmt.Errorf("set presence: %w", err)
	}
	return nil
}

func (s *Redis) Find(ctx context.Context, userID domain.UserID) (presence.Presence, error) {
	key := presenceKeyPrefix + userID.String()
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return presence.Presence{}, sentinel.ErrNotFound
	}
	if err != nil {
		return presence.Presence{}, fmt.Errorf("get presence: %w", err)
	}

	var p presence.Presence
	if err := json.Unmarshal(raw, &p); err != nil {
		return presence.Presence{}, fmt.Errorf("unmarshal presence: %w", err)
	}
	return p, nil
}
