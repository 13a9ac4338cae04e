package redis

import (
	"context"
	"errors"
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/application/command"
	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
	"github.com/cf-hub/cf-progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED PROFILE STORE
// ══════════════════════════════════════════════════════════════════════════════

// CachedProfileStore decorates a ProfileStore with a Redis read-through
// cache. Writes update the backing store first and the cache second, so a
// cache failure can never lose a snapshot, only slow down the next read.
type CachedProfileStore struct {
	store command.ProfileStore
	cache *Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedProfileStore wraps store with a cache.
func NewCachedProfileStore(store command.ProfileStore, cache *Cache, ttl time.Duration, log *logger.Logger) *CachedProfileStore {
	if log == nil {
		log = logger.Default()
	}
	return &CachedProfileStore{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Save writes through to the backing store, then refreshes the cache.
func (s *CachedProfileStore) Save(ctx context.Context, studentID string, a *profile.Analytics) error {
	if err := s.store.Save(ctx, studentID, a); err != nil {
		return err
	}

	if err := s.cache.Set(ctx, ProfileKey(studentID), a, s.ttl); err != nil {
		s.log.Warn("failed to cache analytics after save",
			logger.StudentID(studentID), logger.Err(err))
	}
	return nil
}

// Get serves from the cache when possible and falls back to the store,
// repopulating the cache on the way back.
func (s *CachedProfileStore) Get(ctx context.Context, studentID string) (*profile.Analytics, error) {
	var cached profile.Analytics
	err := s.cache.Get(ctx, ProfileKey(studentID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("cache read failed, falling back to store",
			logger.StudentID(studentID), logger.Err(err))
	}

	a, err := s.store.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, ProfileKey(studentID), a, s.ttl); err != nil {
		s.log.Warn("failed to repopulate cache",
			logger.StudentID(studentID), logger.Err(err))
	}
	return a, nil
}

// Delete removes the snapshot from both the store and the cache.
func (s *CachedProfileStore) Delete(ctx context.Context, studentID string) error {
	if err := s.store.Delete(ctx, studentID); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, ProfileKey(studentID)); err != nil {
		s.log.Warn("failed to evict cached analytics",
			logger.StudentID(studentID), logger.Err(err))
	}
	return nil
}
