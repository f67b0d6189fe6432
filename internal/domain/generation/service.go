package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/promptgen/promptgen-api/internal/pkg/gemini"
	"github.com/promptgen/promptgen-api/internal/pkg/imaging"
	"github.com/promptgen/promptgen-api/internal/pkg/storage"
)

// Spender is the slice of the session store the service needs. Credits are
// spent before the remote call; a remote failure does not refund them.
type Spender interface {
	SpendCredits(ctx context.Context, userID uuid.UUID, amount int, description string) error
}

// Models selects the upstream model per media kind.
type Models struct {
	Text        string
	InlineImage string
	Imagen      string
	TTS         string
	Video       string
}

// DefaultModels returns the production model selection.
func DefaultModels() Models {
	return Models{
		Text:        "gemini-2.5-flash",
		InlineImage: "gemini-2.5-flash-image",
		Imagen:      "imagen-4.0-generate-001",
		TTS:         "gemini-2.5-flash-preview-tts",
		Video:       "veo-3.1-fast-generate-preview",
	}
}

// videoPollInterval is how often a long-running video operation is checked.
const videoPollInterval = 10 * time.Second

// Service runs credit-gated generation operations.
type Service struct {
	sessions     Spender
	gen          Generator
	store        storage.Storage
	normalizer   *imaging.Normalizer
	models       Models
	pollInterval time.Duration
}

// NewService creates generation service
func NewService(sessions Spender, gen Generator, store storage.Storage, normalizer *imaging.Normalizer, models Models) *Service {
	return &Service{
		sessions:     sessions,
		gen:          gen,
		store:        store,
		normalizer:   normalizer,
		models:       models,
		pollInterval: videoPollInterval,
	}
}

// VideoPrompt generates an influencer-plus-product video prompt.
func (s *Service) VideoPrompt(ctx context.Context, userID uuid.UUID, req *VideoPromptRequest) (string, error) {
	parts, err := s.imageParts(append([]ImageUpload{req.InfluencerImage}, req.ProductImages...))
	if err != nil {
		return "", err
	}
	parts = append(parts, gemini.TextPart(videoPromptTemplate(req.Language)))

	if err := s.sessions.SpendCredits(ctx, userID, CostVideoPrompt, "video prompt generation"); err != nil {
		return "", err
	}
	return s.gen.GenerateText(ctx, s.models.Text, parts)
}

// ProductAdPrompt generates a product-only advertisement prompt.
func (s *Service) ProductAdPrompt(ctx context.Context, userID uuid.UUID, req *ProductAdPromptRequest) (string, error) {
	parts, err := s.imageParts(req.ProductImages)
	if err != nil {
		return "", err
	}
	parts = append(parts, gemini.TextPart(productAdTemplate(req.Language)))

	if err := s.sessions.SpendCredits(ctx, userID, CostProductAdPrompt, "product ad prompt generation"); err != nil {
		return "", err
	}
	return s.gen.GenerateText(ctx, s.models.Text, parts)
}

// InfluencerPrompt generates a prompt for an influencer-only video.
func (s *Service) InfluencerPrompt(ctx context.Context, userID uuid.UUID, req *InfluencerPromptRequest) (string, error) {
	parts, err := s.imageParts([]ImageUpload{req.InfluencerImage})
	if err != nil {
		return "", err
	}
	parts = append(parts, gemini.TextPart(influencerOnlyTemplate(req.Actions, req.Language)))

	if err := s.sessions.SpendCredits(ctx, userID, CostInfluencerPrompt, "influencer prompt generation"); err != nil {
		return "", err
	}
	return s.gen.GenerateText(ctx, s.models.Text, parts)
}

// ConsistencyCheck audits a generated prompt for visual ambiguity.
func (s *Service) ConsistencyCheck(ctx context.Context, userID uuid.UUID, prompt string) (*ConsistencyResult, error) {
	if err := s.sessions.SpendCredits(ctx, userID, CostConsistencyCheck, "prompt consistency check"); err != nil {
		return nil, err
	}

	raw, err := s.gen.GenerateJSON(ctx, s.models.Text, consistencySystemInstruction,
		"Audit this prompt:\n\n---\n\n"+prompt, consistencySchema)
	if err != nil {
		return nil, err
	}

	var result ConsistencyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse consistency verdict: %w", err)
	}
	return &result, nil
}

// Image generates one or more images and stores them, returning public URLs.
func (s *Service) Image(ctx context.Context, userID uuid.UUID, req *ImageRequest) ([]string, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "1:1"
	}

	if err := s.sessions.SpendCredits(ctx, userID, CostImage, "image generation"); err != nil {
		return nil, err
	}

	if req.Model == "flash-image" {
		mime, data, err := s.gen.GenerateInlineImage(ctx, s.models.InlineImage, req.Prompt)
		if err != nil {
			return nil, err
		}
		url, err := s.storeBase64(ctx, userID, "image", mime, data)
		if err != nil {
			return nil, err
		}
		return []string{url}, nil
	}

	images, err := s.gen.GenerateImages(ctx, s.models.Imagen, req.Prompt, count, aspect)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.storeBase64(ctx, userID, "image", "image/jpeg", img)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Speech synthesizes text with a prebuilt voice and stores the audio.
func (s *Service) Speech(ctx context.Context, userID uuid.UUID, req *SpeechRequest) (string, error) {
	if len(req.Text) > MaxSpeechCharacters {
		return "", ErrTextTooLong
	}
	if !IsValidVoice(req.Voice) {
		return "", ErrInvalidVoice
	}

	if err := s.sessions.SpendCredits(ctx, userID, CostSpeech, "speech generation"); err != nil {
		return "", err
	}

	mime, data, err := s.gen.GenerateSpeech(ctx, s.models.TTS, req.Text, req.Voice)
	if err != nil {
		return "", err
	}
	return s.storeBase64(ctx, userID, "speech", mime, data)
}

// Storyboard breaks a video idea into sequential scenes.
func (s *Service) Storyboard(ctx context.Context, userID uuid.UUID, concept string) ([]StoryboardScene, error) {
	if err := s.sessions.SpendCredits(ctx, userID, CostStoryboard, "storyboard generation"); err != nil {
		return nil, err
	}

	raw, err := s.gen.GenerateJSON(ctx, s.models.Text, storyboardSystemInstruction, concept, storyboardSchema)
	if err != nil {
		return nil, err
	}

	var scenes []StoryboardScene
	if err := json.Unmarshal(raw, &scenes); err != nil {
		return nil, fmt.Errorf("parse storyboard: %w", err)
	}
	return scenes, nil
}

// SceneImage renders a single storyboard scene as a 16:9 frame.
func (s *Service) SceneImage(ctx context.Context, userID uuid.UUID, imagePrompt string) (string, error) {
	if err := s.sessions.SpendCredits(ctx, userID, CostSceneImage, "storyboard scene image"); err != nil {
		return "", err
	}

	images, err := s.gen.GenerateImages(ctx, s.models.Imagen, imagePrompt, 1, "16:9")
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", gemini.ErrNoMedia
	}
	return s.storeBase64(ctx, userID, "image", "image/jpeg", images[0])
}

// Video renders a full video through the long-running operation API, polling
// until completion, and stores the result.
func (s *Service) Video(ctx context.Context, userID uuid.UUID, req *VideoRequest) (string, error) {
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "9:16"
	}

	if err := s.sessions.SpendCredits(ctx, userID, CostVideo, "video generation"); err != nil {
		return "", err
	}

	operation, err := s.gen.StartVideo(ctx, s.models.Video, req.Prompt, aspect, "720p")
	if err != nil {
		return "", err
	}

	var uri string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}

		done, u, err := s.gen.PollVideo(ctx, operation)
		if err != nil {
			return "", err
		}
		if done {
			uri = u
			break
		}
	}
	if uri == "" {
		return "", ErrNoVideoURI
	}

	data, err := s.gen.Download(ctx, uri)
	if err != nil {
		return "", err
	}

	key := storage.MediaKey(userID, "video", ".mp4")
	if err := s.store.Put(ctx, key, bytes.NewReader(data), "video/mp4"); err != nil {
		return "", err
	}
	return s.store.URL(key), nil
}

// imageParts normalizes uploads and converts them to inline model parts.
func (s *Service) imageParts(uploads []ImageUpload) ([]gemini.Part, error) {
	parts := make([]gemini.Part, 0, len(uploads)+1)
	for _, up := range uploads {
		raw, err := base64.StdEncoding.DecodeString(up.Data)
		if err != nil {
			return nil, fmt.Errorf("decode uploaded image: %w", err)
		}
		normalized, err := s.normalizer.Normalize(raw)
		if err != nil {
			return nil, err
		}
		parts = append(parts, gemini.ImagePart(
			normalized.ContentType,
			base64.StdEncoding.EncodeToString(normalized.Data),
		))
	}
	return parts, nil
}

func (s *Service) storeBase64(ctx context.Context, userID uuid.UUID, kind, mime, data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode generated media: %w", err)
	}

	key := storage.MediaKey(userID, kind, storage.ExtForMime(mime))
	if err := s.store.Put(ctx, key, bytes.NewReader(raw), mime); err != nil {
		return "", err
	}
	return s.store.URL(key), nil
}
