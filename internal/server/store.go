package server

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"presence/internal/attendance"
)

// StateStore holds each user's attendance record for the current day. The
// abstraction covers a memory backend for dev/test and a redis backend that
// shares state across instances.
type StateStore interface {
	Day(ctx context.Context, user, day string) (attendance.Status, error)
	SetDay(ctx context.Context, user, day string, st attendance.Status) error
}

// MemoryState is a map-backed state store for dev and tests.
type MemoryState struct {
	mu   sync.Mutex
	days map[string]attendance.Status
}

// NewMemoryState creates an empty state store.
func NewMemoryState() *MemoryState {
	return &MemoryState{days: make(map[string]attendance.Status)}
}

// Day returns the record for user on day; zero value when absent.
func (m *MemoryState) Day(_ context.Context, user, day string) (attendance.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.days[user+"|"+day], nil
}

// SetDay replaces the record for user on day.
func (m *MemoryState) SetDay(_ context.Context, user, day string, st attendance.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[user+"|"+day] = st
	return nil
}

// RedisState keeps day records in redis hashes with a short expiry, so state
// survives restarts and is shared between instances.
type RedisState struct {
	client *redis.Client
}

// NewRedisState connects to redis with short timeouts.
func NewRedisState(addr string) *RedisState {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisState{client: client}
}

// Healthy verifies redis connectivity.
func (r *RedisState) Healthy(ctx context.Context) bool {
	if r == nil || r.client == nil {
		return false
	}
	return r.client.Ping(ctx).Err() == nil
}

func dayKey(user, day string) string {
	return "presence:day:" + user + ":" + day
}

// Day reads the record for user on day.
func (r *RedisState) Day(ctx context.Context, user, day string) (attendance.Status, error) {
	vals, err := r.client.HGetAll(ctx, dayKey(user, day)).Result()
	if err != nil {
		return attendance.Status{}, err
	}
	return attendance.Status{
		CheckInTime:  vals["checkInTime"],
		CheckOutTime: vals["checkOutTime"],
	}, nil
}

// SetDay writes the record for user on day. Records expire after two days;
// the permanent trail lives in the event log.
func (r *RedisState) SetDay(ctx context.Context, user, day string, st attendance.Status) error {
	key := dayKey(user, day)
	fields := map[string]interface{}{
		"checkInTime":  st.CheckInTime,
		"checkOutTime": st.CheckOutTime,
	}
	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, 48*time.Hour).Err()
}
