package credit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/middleware"
	"github.com/promptgen/promptgen-api/internal/pkg/response"
)

const defaultHistoryLimit = 50

// Handler handles credit HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates credit handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes returns credit routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/transactions", h.Transactions)
	return r
}

// Transactions handles GET /credits/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	txs, err := h.service.ListTransactions(r.Context(), userID, Pagination{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list credit transactions")
		response.InternalError(w)
		return
	}

	response.OK(w, txs)
}
