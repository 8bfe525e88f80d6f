package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSearchTTL is how long a provider response stays cached
const DefaultSearchTTL = time.Minute

// Store caches raw provider search responses. It holds nothing about
// watches or notifications.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// GetSearch returns the cached response for a search URL. ok is false on a miss.
func (s *Store) GetSearch(ctx context.Context, searchURL string) (data []byte, ok bool, err error) {
	data, err = s.client.Get(ctx, SearchKey(searchURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached search: %w", err)
	}
	return data, true, nil
}

// SaveSearch caches a response for ttl, DefaultSearchTTL when ttl <= 0
func (s *Store) SaveSearch(ctx context.Context, searchURL string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	if err := s.client.Set(ctx, SearchKey(searchURL), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}
	return nil
}

// FlushSearches removes every cached response
func (s *Store) FlushSearches(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixSearch+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete cache key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush search cache: %w", err)
	}
	return deleted, nil
}

// Ping reports whether Redis answers
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
