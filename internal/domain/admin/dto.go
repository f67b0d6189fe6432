package admin

// GrantCreditsRequest for POST /admin/users/{id}/credits
type GrantCreditsRequest struct {
	Amount int `json:"amount" validate:"required,min=1,max=100000"`
}

// SetRoleRequest for PUT /admin/users/{id}/role
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// SetCommissionRateRequest for PUT /admin/users/{id}/commission-rate
type SetCommissionRateRequest struct {
	Rate float64 `json:"rate" validate:"min=0,max=1"`
}

// SetAnnouncementRequest for PUT /admin/announcement
type SetAnnouncementRequest struct {
	ID      string `json:"id" validate:"omitempty,max=64"`
	Message string `json:"message" validate:"required,max=500"`
}

// UserSummary is the admin view of a user.
type UserSummary struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	CreditBalance    int     `json:"credit_balance"`
	AffiliateID      string  `json:"affiliate_id,omitempty"`
	CommissionRate   float64 `json:"commission_rate,omitempty"`
	CommissionEarned float64 `json:"commission_earned,omitempty"`
	ReferredBy       string  `json:"referred_by,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// RevenueResponse for GET /admin/revenue
type RevenueResponse struct {
	TotalRevenue float64 `json:"total_revenue"`
}
