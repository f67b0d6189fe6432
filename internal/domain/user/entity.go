package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleInfluencer Role = "influencer"
	RoleAffiliate  Role = "affiliate"
)

// User represents an account (matches users table)
type User struct {
	ID            uuid.UUID `db:"id"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password_hash"`
	Role          Role      `db:"role"`
	CreditBalance int       `db:"credit_balance"`

	// Affiliate program
	AffiliateID      sql.NullString  `db:"affiliate_id"`
	CommissionRate   sql.NullFloat64 `db:"commission_rate"`
	CommissionEarned float64         `db:"commission_earned"`
	ReferredBy       sql.NullString  `db:"referred_by"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsAffiliate returns true if user participates in the affiliate program
func (u *User) IsAffiliate() bool {
	return u.Role == RoleAffiliate
}

// EffectiveCommissionRate returns the affiliate's rate, falling back to the
// given default when none was ever set.
func (u *User) EffectiveCommissionRate(defaultRate float64) float64 {
	if u.CommissionRate.Valid && u.CommissionRate.Float64 > 0 {
		return u.CommissionRate.Float64
	}
	return defaultRate
}

// IsValidRole checks if role belongs to the closed role set
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAdmin, RoleInfluencer, RoleAffiliate:
		return true
	}
	return false
}
