// Package redisstore keeps sessions in Redis so several instances can share
// them.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mondichat-be/pkg/session"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository stores sessions under "session:<userId>". A zero ttl
// keeps them until deleted.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, userId string) (*session.UserSession, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+userId).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s session.UserSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Set(ctx context.Context, userId string, s *session.UserSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+userId, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userId string) error {
	if err := r.rdb.Del(ctx, keyPrefix+userId).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
