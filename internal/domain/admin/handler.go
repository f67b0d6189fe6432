package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/domain/user"
	"github.com/promptgen/promptgen-api/internal/pkg/response"
	"github.com/promptgen/promptgen-api/internal/pkg/validator"
)

// Handler handles admin HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		response.InternalError(w)
		return
	}
	response.OK(w, users)
}

// GrantCredits handles POST /admin/users/{id}/credits
func (h *Handler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req GrantCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.GrantCredits(r.Context(), userID, req.Amount); err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to grant credits")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]int{"granted": req.Amount})
}

// SetRole handles PUT /admin/users/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.SetRole(r.Context(), userID, user.Role(req.Role)); err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to set role")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"role": req.Role})
}

// SetCommissionRate handles PUT /admin/users/{id}/commission-rate
func (h *Handler) SetCommissionRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req SetCommissionRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.SetCommissionRate(r.Context(), userID, req.Rate); err != nil {
		switch err {
		case ErrInvalidRate:
			response.BadRequest(w, "Commission rate must be between 0 and 1")
		case user.ErrNotAffiliate:
			response.BadRequest(w, "User is not an affiliate")
		case ErrUserNotFound, user.ErrNotFound:
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to set commission rate")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]float64{"rate": req.Rate})
}

// ListTransactions handles GET /admin/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txs, err := h.service.ListTransactions(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list transactions")
		response.InternalError(w)
		return
	}
	response.OK(w, txs)
}

// Revenue handles GET /admin/revenue
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalRevenue(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to compute revenue")
		response.InternalError(w)
		return
	}
	response.OK(w, RevenueResponse{TotalRevenue: total})
}

// SetAnnouncement handles PUT /admin/announcement
func (h *Handler) SetAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req SetAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.service.SetAnnouncement(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Msg("failed to set announcement")
		response.InternalError(w)
		return
	}
	response.OK(w, a)
}

// ClearAnnouncement handles DELETE /admin/announcement
func (h *Handler) ClearAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAnnouncement(r.Context()); err != nil {
		log.Error().Err(err).Msg("failed to clear announcement")
		response.InternalError(w)
		return
	}
	response.NoContent(w)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user id")
		return uuid.Nil, false
	}
	return id, true
}
