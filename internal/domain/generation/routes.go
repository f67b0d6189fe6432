package generation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns generation router. Everything requires authentication.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/video-prompt", h.VideoPrompt)
	r.Post("/product-ad-prompt", h.ProductAdPrompt)
	r.Post("/influencer-prompt", h.InfluencerPrompt)
	r.Post("/consistency-check", h.ConsistencyCheck)
	r.Post("/image", h.Image)
	r.Post("/speech", h.Speech)
	r.Post("/storyboard", h.Storyboard)
	r.Post("/scene-image", h.SceneImage)
	r.Post("/video", h.Video)

	return r
}
