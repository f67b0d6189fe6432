package referral

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// VisitorCookie carries the anonymous visitor id between the landing visit
// and the later registration.
const VisitorCookie = "pg_visitor"

const capturePrefix = "referral:capture:"

// ErrNoCapture is returned when no referral is stored for the visitor.
var ErrNoCapture = errors.New("no referral captured")

// Backend is the storage surface for captures. The read consumes the value,
// so a capture is attributable to exactly one registration.
type Backend interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

// Store captures referral codes for anonymous visitors.
type Store struct {
	backend Backend
	ttl     time.Duration
}

func NewStore(backend Backend, ttl time.Duration) *Store {
	return &Store{backend: backend, ttl: ttl}
}

// Capture remembers the referral code for the visitor, replacing any earlier
// capture.
func (s *Store) Capture(ctx context.Context, visitorID, code string) error {
	if visitorID == "" || code == "" {
		return nil
	}
	return s.backend.Set(ctx, capturePrefix+visitorID, code, s.ttl)
}

// Consume returns the captured code and removes it in the same operation.
func (s *Store) Consume(ctx context.Context, visitorID string) (string, error) {
	if visitorID == "" {
		return "", ErrNoCapture
	}
	return s.backend.GetDel(ctx, capturePrefix+visitorID)
}

type redisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps a redis client as a Backend. GETDEL makes the
// consume read atomic across instances.
func NewRedisBackend(client *redis.Client) Backend {
	return &redisBackend{client: client}
}

func (b *redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *redisBackend) GetDel(ctx context.Context, key string) (string, error) {
	val, err := b.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCapture
	}
	return val, err
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryBackend returns a process-local Backend for redis-less setups.
func NewMemoryBackend() Backend {
	return &memoryBackend{entries: make(map[string]memoryEntry)}
}

func (b *memoryBackend) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	b.mu.Lock()
	b.entries[key] = entry
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) GetDel(_ context.Context, key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.entries[key]
	if !ok {
		return "", ErrNoCapture
	}
	delete(b.entries, key)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return "", ErrNoCapture
	}
	return entry.value, nil
}
