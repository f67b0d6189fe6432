package referral

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/pkg/response"
)

// Handler captures ?ref= referral codes for anonymous visitors.
type Handler struct {
	store     *Store
	cookieTTL time.Duration
	secure    bool
}

func NewHandler(store *Store, cookieTTL time.Duration, secure bool) *Handler {
	return &Handler{store: store, cookieTTL: cookieTTL, secure: secure}
}

// Routes returns referral router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/capture", h.Capture)
	return r
}

// Capture handles GET /referral/capture?ref=<code>. It assigns the visitor
// cookie when absent and stores the code against it.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("ref")
	if code == "" {
		response.BadRequest(w, "ref query parameter is required")
		return
	}

	visitor := h.visitorID(w, r)
	if err := h.store.Capture(r.Context(), visitor, code); err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to capture referral")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "captured"})
}

func (h *Handler) visitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(VisitorCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
