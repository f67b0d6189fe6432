package content

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const announcementKey = "content:announcement"

// Announcement is the site-wide banner. Clients track the last dismissed id
// locally; the server only serves the current banner.
type Announcement struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ErrNoAnnouncement is returned when no banner is set.
var ErrNoAnnouncement = errors.New("no announcement set")

// Store persists the announcement in Redis so all instances serve the same
// banner.
type Store struct {
	redis *redis.Client // nil disables announcements
}

func NewStore(client *redis.Client) *Store {
	return &Store{redis: client}
}

// Get returns the current announcement.
func (s *Store) Get(ctx context.Context) (*Announcement, error) {
	if s.redis == nil {
		return nil, ErrNoAnnouncement
	}

	raw, err := s.redis.Get(ctx, announcementKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoAnnouncement
	}
	if err != nil {
		return nil, err
	}

	var a Announcement
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Set replaces the current announcement.
func (s *Store) Set(ctx context.Context, a *Announcement) error {
	if s.redis == nil {
		return errors.New("announcement store requires redis")
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, announcementKey, string(raw), 0).Err()
}

// Clear removes the announcement.
func (s *Store) Clear(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, announcementKey).Err()
}
