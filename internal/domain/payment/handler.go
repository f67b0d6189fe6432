package payment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/middleware"
	"github.com/promptgen/promptgen-api/internal/pkg/response"
	"github.com/promptgen/promptgen-api/internal/pkg/validator"
)

// Handler handles payment HTTP requests
type Handler struct {
	service  *Service
	poller   *StatusPoller
	upgrader websocket.Upgrader
}

// NewHandler creates payment handler
func NewHandler(service *Service, poller *StatusPoller, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		poller:  poller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
	}
}

// Packages handles GET /payments/packages
func (h *Handler) Packages(w http.ResponseWriter, r *http.Request) {
	response.OK(w, Packages)
}

// CreatePixCharge handles POST /payments/pix
func (h *Handler) CreatePixCharge(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreatePixChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	charge, err := h.service.CreatePixCharge(r.Context(), userID, req.Credits)
	if err != nil {
		switch err {
		case ErrUnknownPackage:
			response.BadRequest(w, "Unknown credit package")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create pix charge")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, charge)
}

// CreateCardPayment handles POST /payments/card
func (h *Handler) CreateCardPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateCardPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	charge, err := h.service.CreateCardPayment(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case ErrUnknownPackage:
			response.BadRequest(w, "Unknown credit package")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create card payment")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, charge)
}

// Status handles GET /payments/{id}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	chargeID := chi.URLParam(r, "id")
	charge, err := h.service.GetStatus(r.Context(), userID, chargeID)
	if err != nil {
		switch err {
		case ErrChargeNotFound:
			response.NotFound(w, "Charge not found")
		case ErrNotOwner:
			response.Forbidden(w, "Charge belongs to another user")
		default:
			log.Error().Err(err).Str("charge_id", chargeID).Msg("failed to get charge status")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, StatusResponse{
		ID:      charge.ID,
		Status:  charge.Status,
		Credits: charge.Credits,
		Message: charge.Message,
	})
}

// Stream handles GET /payments/{id}/stream. It upgrades to a websocket and
// pushes one status event per poll until the charge is terminal or the
// client disconnects.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	chargeID := chi.URLParam(r, "id")
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for event := range h.poller.Watch(ctx, userID, chargeID) {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// History handles GET /payments
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	charges, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list charges")
		response.InternalError(w)
		return
	}

	response.OK(w, charges)
}

// Webhook handles POST /payments/webhook/pix. The sandbox provider calls it
// to confirm a charge out of band.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChargeID string `json:"charge_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ChargeID == "" {
		response.BadRequest(w, "charge_id is required")
		return
	}

	charge, err := h.service.ConfirmWebhook(r.Context(), body.ChargeID)
	if err != nil {
		switch err {
		case ErrChargeNotFound:
			response.NotFound(w, "Charge not found")
		default:
			log.Error().Err(err).Str("charge_id", body.ChargeID).Msg("webhook confirm failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, StatusResponse{ID: charge.ID, Status: charge.Status, Credits: charge.Credits})
}
