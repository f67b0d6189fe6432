package content

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/pkg/response"
)

// Handler serves the public announcement endpoint.
type Handler struct {
	store *Store
}

// NewHandler creates content handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Routes returns content router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/announcement", h.Announcement)
	return r
}

// Announcement handles GET /content/announcement. No banner set responds
// with an empty object so clients need no special casing.
func (h *Handler) Announcement(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Get(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoAnnouncement) {
			response.OK(w, struct{}{})
			return
		}
		log.Error().Err(err).Msg("failed to load announcement")
		response.InternalError(w)
		return
	}
	response.OK(w, a)
}
