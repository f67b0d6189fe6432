package generation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/promptgen/promptgen-api/internal/domain/credit"
	"github.com/promptgen/promptgen-api/internal/middleware"
	"github.com/promptgen/promptgen-api/internal/pkg/gemini"
	"github.com/promptgen/promptgen-api/internal/pkg/response"
	"github.com/promptgen/promptgen-api/internal/pkg/validator"
)

// Handler handles generation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates generation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// VideoPrompt handles POST /generate/video-prompt
func (h *Handler) VideoPrompt(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[VideoPromptRequest](w, r)
	if !ok {
		return
	}

	prompt, err := h.service.VideoPrompt(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, userID, "video prompt", err)
		return
	}
	response.OK(w, PromptResponse{Prompt: prompt})
}

// ProductAdPrompt handles POST /generate/product-ad-prompt
func (h *Handler) ProductAdPrompt(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[ProductAdPromptRequest](w, r)
	if !ok {
		return
	}

	prompt, err := h.service.ProductAdPrompt(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, userID, "product ad prompt", err)
		return
	}
	response.OK(w, PromptResponse{Prompt: prompt})
}

// InfluencerPrompt handles POST /generate/influencer-prompt
func (h *Handler) InfluencerPrompt(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[InfluencerPromptRequest](w, r)
	if !ok {
		return
	}

	prompt, err := h.service.InfluencerPrompt(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, userID, "influencer prompt", err)
		return
	}
	response.OK(w, PromptResponse{Prompt: prompt})
}

// ConsistencyCheck handles POST /generate/consistency-check
func (h *Handler) ConsistencyCheck(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[ConsistencyRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.ConsistencyCheck(r.Context(), userID, req.Prompt)
	if err != nil {
		h.writeError(w, userID, "consistency check", err)
		return
	}
	response.OK(w, result)
}

// Image handles POST /generate/image
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[ImageRequest](w, r)
	if !ok {
		return
	}

	urls, err := h.service.Image(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, userID, "image", err)
		return
	}
	response.OK(w, MediaResponse{URLs: urls})
}

// Speech handles POST /generate/speech
func (h *Handler) Speech(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[SpeechRequest](w, r)
	if !ok {
		return
	}

	url, err := h.service.Speech(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, userID, "speech", err)
		return
	}
	response.OK(w, MediaResponse{URLs: []string{url}})
}

// Storyboard handles POST /generate/storyboard
func (h *Handler) Storyboard(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[StoryboardRequest](w, r)
	if !ok {
		return
	}

	scenes, err := h.service.Storyboard(r.Context(), userID, req.Concept)
	if err != nil {
		h.writeError(w, userID, "storyboard", err)
		return
	}
	response.OK(w, scenes)
}

// SceneImage handles POST /generate/scene-image
func (h *Handler) SceneImage(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[SceneImageRequest](w, r)
	if !ok {
		return
	}

	url, err := h.service.SceneImage(r.Context(), userID, req.ImagePrompt)
	if err != nil {
		h.writeError(w, userID, "scene image", err)
		return
	}
	response.OK(w, MediaResponse{URLs: []string{url}})
}

// Video handles POST /generate/video
func (h *Handler) Video(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decode[VideoRequest](w, r)
	if !ok {
		return
	}

	url, err := h.service.Video(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, userID, "video", err)
		return
	}
	response.OK(w, MediaResponse{URLs: []string{url}})
}

func (h *Handler) writeError(w http.ResponseWriter, userID uuid.UUID, feature string, err error) {
	switch {
	case errors.Is(err, credit.ErrInsufficientCredits):
		response.PaymentRequired(w, "Not enough credits for this generation")
	case errors.Is(err, ErrInvalidVoice):
		response.BadRequest(w, "Unknown voice")
	case errors.Is(err, ErrTextTooLong):
		response.BadRequest(w, "Text exceeds the character limit")
	case errors.Is(err, gemini.ErrNotConfigured):
		response.BadGateway(w, "Generation backend is not configured")
	default:
		log.Error().Err(err).Str("user_id", userID.String()).Str("feature", feature).Msg("generation failed")
		response.BadGateway(w, "Generation failed: "+err.Error())
	}
}

// decode parses and validates the request body and resolves the caller.
func decode[T any](w http.ResponseWriter, r *http.Request) (uuid.UUID, *T, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return uuid.Nil, nil, false
	}

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return uuid.Nil, nil, false
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return uuid.Nil, nil, false
	}
	return userID, &req, true
}
