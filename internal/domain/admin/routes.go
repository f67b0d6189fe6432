package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns admin router. The middleware chain restricts it to admins.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/users", h.ListUsers)
	r.Post("/users/{id}/credits", h.GrantCredits)
	r.Put("/users/{id}/role", h.SetRole)
	r.Put("/users/{id}/commission-rate", h.SetCommissionRate)
	r.Get("/transactions", h.ListTransactions)
	r.Get("/revenue", h.Revenue)
	r.Put("/announcement", h.SetAnnouncement)
	r.Delete("/announcement", h.ClearAnnouncement)

	return r
}
