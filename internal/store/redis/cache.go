// Package redis caches finished conversion results for the serve mode. The
// cache is keyed by a digest of the payload and format pair, so identical
// uploads skip the parse entirely. It stores outputs only, never bookmark
// trees: the engine stays stateless.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

// DefaultResultTTL is the default lifetime of a cached conversion result.
const DefaultResultTTL = 24 * time.Hour

// Store handles Redis operations for the conversion result cache.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// CachedResult is the envelope stored for a finished conversion. Warnings
// are part of the contract, so a cache hit replays them too.
type CachedResult struct {
	Output   []byte             `json:"output"`
	Warnings []bookmark.Warning `json:"warnings"`
}

// Digest derives the cache key material for a conversion request. The same
// payload converted in the same direction always lands on the same key.
func Digest(from, to string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(from))
	h.Write([]byte{'|'})
	h.Write([]byte(to))
	h.Write([]byte{'|'})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// SaveResult stores a conversion result under its digest.
func (s *Store) SaveResult(ctx context.Context, digest string, res *CachedResult, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	if err := s.client.Set(ctx, ResultKey(digest), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// GetResult retrieves a cached conversion result. A cache miss returns
// (nil, nil).
func (s *Store) GetResult(ctx context.Context, digest string) (*CachedResult, error) {
	data, err := s.client.Get(ctx, ResultKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	var res CachedResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &res, nil
}

// FlushResults removes all cached conversion results.
func (s *Store) FlushResults(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixResult+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush result cache: %w", err)
	}
	return nil
}

// Ping checks cache liveness for the infra endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
