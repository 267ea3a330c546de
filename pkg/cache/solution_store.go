package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ukfootprint/class-timetabler/internal/domain"
)

// SolutionStore adapts a Redis client to orchestration.SolutionCache.
type SolutionStore struct {
	client *redis.Client
}

// NewSolutionStore wraps client for solution caching.
func NewSolutionStore(client *redis.Client) *SolutionStore {
	return &SolutionStore{client: client}
}

// Get returns the cached solution for key, if present.
func (s *SolutionStore) Get(ctx context.Context, key string) (domain.Solution, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Solution{}, false, nil
	}
	if err != nil {
		return domain.Solution{}, false, err
	}

	var sol domain.Solution
	if err := json.Unmarshal(raw, &sol); err != nil {
		return domain.Solution{}, false, err
	}
	return sol, true, nil
}

// Set stores sol under key with the given TTL.
func (s *SolutionStore) Set(ctx context.Context, key string, sol domain.Solution, ttl time.Duration) error {
	raw, err := json.Marshal(sol)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}
