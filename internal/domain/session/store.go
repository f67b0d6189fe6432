package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/domain/user"
)

const (
	profileKeyPrefix = "session:profile:"
	profileTTL       = 30 * time.Minute
)

// Profile is the per-user view the frontend polls. The credit balance here is
// a cache of the database value, updated optimistically on spend.
type Profile struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	Role          user.Role `json:"role"`
	CreditBalance int       `json:"credit_balance"`
}

// UserLoader is the slice of the user repository the store needs.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Store caches user profiles and applies credit mutations optimistically:
// the cached balance moves first, the credit service is the write-through,
// and a rejected write restores the cached snapshot. The database balance is
// always authoritative; there is no cross-instance lock.
type Store struct {
	cache   Cache
	credits credit.Service
	users   UserLoader
}

func NewStore(cache Cache, credits credit.Service, users UserLoader) *Store {
	return &Store{cache: cache, credits: credits, users: users}
}

// GetProfile returns the cached profile, loading it from the database on miss.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	cached, err := s.cache.Get(ctx, profileKeyPrefix+userID.String())
	if err == nil {
		var p Profile
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
		// Unreadable entry, fall through to reload.
	} else if !errors.Is(err, ErrCacheMiss) {
		return nil, fmt.Errorf("session store get profile: %w", err)
	}

	return s.reload(ctx, userID)
}

// SpendCredits decrements the cached balance, then writes through to the
// credit service. On any write failure the cached profile is restored to the
// pre-spend snapshot and the error is returned unchanged so callers can map
// credit.ErrInsufficientCredits.
func (s *Store) SpendCredits(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	snapshot, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if snapshot.CreditBalance < amount {
		return credit.ErrInsufficientCredits
	}

	optimistic := *snapshot
	optimistic.CreditBalance -= amount
	s.put(ctx, &optimistic)

	if err := s.credits.Spend(ctx, userID, amount, description); err != nil {
		s.put(ctx, snapshot)
		return err
	}
	return nil
}

// AddCredits writes the grant through the credit service and refreshes the
// cached balance.
func (s *Store) AddCredits(ctx context.Context, userID uuid.UUID, amount int, txType credit.TxType, description string, referenceID *string) error {
	if err := s.credits.Add(ctx, userID, amount, txType, description, referenceID); err != nil {
		return err
	}
	if _, err := s.reload(ctx, userID); err != nil {
		// The grant is committed; a stale cache corrects on the next reload.
		return nil
	}
	return nil
}

// Invalidate drops the cached profile.
func (s *Store) Invalidate(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.Del(ctx, profileKeyPrefix+userID.String())
}

func (s *Store) reload(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session store load user: %w", err)
	}
	if u == nil {
		return nil, user.ErrNotFound
	}

	p := &Profile{
		UserID:        u.ID,
		Email:         u.Email,
		Role:          u.Role,
		CreditBalance: u.CreditBalance,
	}
	s.put(ctx, p)
	return p, nil
}

func (s *Store) put(ctx context.Context, p *Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, profileKeyPrefix+p.UserID.String(), string(data), profileTTL)
}
