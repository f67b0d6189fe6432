package payment

// CreatePixChargeRequest for POST /payments/pix
type CreatePixChargeRequest struct {
	Credits int `json:"credits" validate:"required"`
}

// CreateCardPaymentRequest for POST /payments/card
type CreateCardPaymentRequest struct {
	Credits    int    `json:"credits" validate:"required"`
	CardToken  string `json:"card_token" validate:"required,min=8,max=64"`
	CardHolder string `json:"card_holder" validate:"required,min=2,max=100"`
}

// StatusResponse for GET /payments/{id}/status and the websocket stream
type StatusResponse struct {
	ID      string `json:"id"`
	Status  Status `json:"status"`
	Credits int    `json:"credits"`
	Message string `json:"message,omitempty"`
}
