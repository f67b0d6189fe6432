package affiliate

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/middleware"
	"github.com/promptgen/promptgen-api/internal/pkg/response"
)

// Handler handles affiliate HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates affiliate handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns affiliate router. The middleware chain restricts it to
// affiliate and admin roles.
func (h *Handler) Routes(authMiddleware, affiliateOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(affiliateOnly)
	r.Get("/dashboard", h.Dashboard)
	return r
}

// Dashboard handles GET /affiliate/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		switch err {
		case ErrNotAffiliate:
			response.Forbidden(w, "Affiliate account required")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load affiliate dashboard")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, dashboard)
}
