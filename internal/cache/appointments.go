// Package cache provides the Redis-backed appointment list cache. Cached
// lists are invalidated whenever a booking or status change touches them so
// derived views are recomputed from fresh data, never patched in place.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AppointmentCache stores marshaled appointment lists keyed by owner. A nil
// cache (Redis unavailable) degrades to a pass-through: every Get misses.
type AppointmentCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// New creates an appointment list cache. Returns nil when no Redis client
// is available; all methods tolerate a nil receiver.
func New(client *redis.Client, ttl time.Duration) *AppointmentCache {
	if client == nil {
		return nil
	}
	return &AppointmentCache{redis: client, ttl: ttl}
}

// PatientKey identifies a patient's appointment list.
func PatientKey(patientID string) string {
	return fmt.Sprintf("appointments:patient:%s", patientID)
}

// DoctorKey identifies a doctor's appointment list.
func DoctorKey(doctorID string) string {
	return fmt.Sprintf("appointments:doctor:%s", doctorID)
}

// Get loads a cached list into dest. The second return is false on a miss
// or any Redis error; callers fall back to the store.
func (c *AppointmentCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache: unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Set stores a marshaled list under key with the configured TTL.
func (c *AppointmentCache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the given keys so the next read recomputes from the store.
func (c *AppointmentCache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: invalidate: %w", err)
	}
	return nil
}
