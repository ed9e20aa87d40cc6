package memory

import (
	"context"
	"time"

	"mondichat-be/pkg/session"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory. With a zero ttl they
// live as long as the process.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 6
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
	}
}

func (r *SessionRepository) Get(ctx context.Context, userId string) (*session.UserSession, error) {
	if x, found := r.cache.Get(userId); found {
		return x.(*session.UserSession).Clone(), nil
	}
	return nil, nil
}

func (r *SessionRepository) Set(ctx context.Context, userId string, s *session.UserSession) error {
	r.cache.Set(userId, s.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userId string) error {
	r.cache.Delete(userId)
	return nil
}
