package credit

import (
	"time"

	"github.com/google/uuid"
)

type TxType string

const (
	TxTypeDeduction  TxType = "deduction"
	TxTypePurchase   TxType = "purchase"
	TxTypeAdminGrant TxType = "admin_grant"
	TxTypeWelcome    TxType = "welcome"
)

// Transaction is one ledger entry. Amount is negative for deductions and
// positive for grants and purchases.
type Transaction struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Amount      int       `db:"amount" json:"amount"`
	Type        TxType    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	ReferenceID *string   `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Pagination struct {
	Limit  int
	Offset int
}
