package affiliate

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PurchaseTransaction records one confirmed credit purchase. Affiliate
// fields are set when the payer registered through a referral.
type PurchaseTransaction struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	UserID           uuid.UUID       `db:"user_id" json:"user_id"`
	ChargeID         string          `db:"charge_id" json:"charge_id"`
	AmountPaid       float64         `db:"amount_paid" json:"amount_paid"`
	CreditsPurchased int             `db:"credits_purchased" json:"credits_purchased"`
	AffiliateCode    sql.NullString  `db:"affiliate_code" json:"affiliate_code,omitempty"`
	CommissionAmount sql.NullFloat64 `db:"commission_amount" json:"commission_amount,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Dashboard is the affiliate's earnings view.
type Dashboard struct {
	AffiliateCode    string                `json:"affiliate_code"`
	CommissionRate   float64               `json:"commission_rate"`
	CommissionEarned float64               `json:"commission_earned"`
	ReferredSales    int                   `json:"referred_sales"`
	Transactions     []PurchaseTransaction `json:"transactions"`
}
