package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres error code for a unique-constraint violation.
const uniqueViolation = "23505"

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByAffiliateID(ctx context.Context, affiliateID string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	SetRole(ctx context.Context, id uuid.UUID, role Role, affiliateID *string, commissionRate *float64) error
	SetCommissionRate(ctx context.Context, id uuid.UUID, rate float64) error
	AddCommission(ctx context.Context, id uuid.UUID, amount float64) error
}

const selectColumns = `id, email, password_hash, role, credit_balance,
	       affiliate_id, commission_rate, commission_earned, referred_by,
	       created_at, updated_at`

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create creates a new user
func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, credit_balance, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreditBalance,
		user.ReferredBy,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("user repository create: %w", err)
	}

	return nil
}

// GetByID returns user by ID, nil when absent
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns user by email, nil when absent
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+selectColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByAffiliateID resolves an affiliate code to its owner, nil when absent
func (r *repository) GetByAffiliateID(ctx context.Context, affiliateID string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+selectColumns+` FROM users WHERE affiliate_id = $1`, affiliateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by registration date
func (r *repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	}
	users := make([]User, 0)
	err := r.db.SelectContext(ctx, &users, `
		SELECT `+selectColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user repository list: %w", err)
	}
	return users, nil
}

// SetRole updates a user's role. Affiliate promotion passes the generated
// affiliate code and starting commission rate.
func (r *repository) SetRole(ctx context.Context, id uuid.UUID, role Role, affiliateID *string, commissionRate *float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET role = $2,
		    affiliate_id = COALESCE($3, affiliate_id),
		    commission_rate = COALESCE($4, commission_rate),
		    updated_at = now()
		WHERE id = $1
	`, id, role, affiliateID, commissionRate)
	if err != nil {
		return fmt.Errorf("user repository set role: %w", err)
	}
	return requireRow(result)
}

// SetCommissionRate updates an affiliate's commission rate
func (r *repository) SetCommissionRate(ctx context.Context, id uuid.UUID, rate float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET commission_rate = $2, updated_at = now()
		WHERE id = $1 AND role = 'affiliate'
	`, id, rate)
	if err != nil {
		return fmt.Errorf("user repository set commission rate: %w", err)
	}
	if err := requireRow(result); err != nil {
		return ErrNotAffiliate
	}
	return nil
}

// AddCommission accrues earned commission onto the affiliate's total
func (r *repository) AddCommission(ctx context.Context, id uuid.UUID, amount float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET commission_earned = commission_earned + $2, updated_at = now()
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return fmt.Errorf("user repository add commission: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
