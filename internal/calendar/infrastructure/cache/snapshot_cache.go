// Package cache provides a Redis read-through layer over the snapshot
// store. Snapshots are read on every suggestion and recompute but only
// change when an automation delivers a new day, so short-TTL caching
// absorbs most of the load.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotTTL bounds staleness after an automation update that
// bypassed invalidation.
const DefaultSnapshotTTL = 5 * time.Minute

// CachedSnapshotRepository wraps a SnapshotRepository with Redis.
// Cache failures degrade to the underlying store, never to an error.
type CachedSnapshotRepository struct {
	inner  domain.SnapshotRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSnapshotRepository(inner domain.SnapshotRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSnapshotRepository {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSnapshotRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func snapshotKey(userID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("snapshot:%s:%s", userID, date.Format("2006-01-02"))
}

// FindByUserAndDate serves from Redis when possible and falls through to
// the store on miss. Absence is not cached: a missing snapshot usually
// means the automation has not run yet, and a stale negative would hide
// its arrival.
func (r *CachedSnapshotRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySnapshot, error) {
	key := snapshotKey(userID, date)

	payload, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var snapshot domain.DaySnapshot
		if err := json.Unmarshal(payload, &snapshot); err == nil {
			return &snapshot, nil
		}
		r.logger.Warn("corrupt snapshot cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("snapshot cache read failed", "key", key, "error", err)
	}

	snapshot, err := r.inner.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("snapshot cache write failed", "key", key, "error", err)
		}
	}
	return snapshot, nil
}

// Invalidate drops the cached entry after an automation upsert.
func (r *CachedSnapshotRepository) Invalidate(ctx context.Context, userID uuid.UUID, date time.Time) {
	if err := r.client.Del(ctx, snapshotKey(userID, date)).Err(); err != nil {
		r.logger.Warn("snapshot cache invalidation failed", "error", err)
	}
}
