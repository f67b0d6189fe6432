package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns payment router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/packages", h.Packages)
	r.Post("/webhook/pix", h.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.History)
		r.Post("/pix", h.CreatePixCharge)
		r.Post("/card", h.CreateCardPayment)
		r.Get("/{id}/status", h.Status)
		r.Get("/{id}/stream", h.Stream)
	})

	return r
}
