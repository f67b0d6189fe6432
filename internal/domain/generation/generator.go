package generation

import (
	"context"
	"encoding/json"

	"github.com/promptgen/promptgen-api/internal/pkg/gemini"
)

// Generator is the slice of the Gemini client the service uses. Tests
// substitute a fake; production wires *gemini.Client.
type Generator interface {
	GenerateText(ctx context.Context, model string, parts []gemini.Part) (string, error)
	GenerateJSON(ctx context.Context, model, systemInstruction, prompt string, schema json.RawMessage) ([]byte, error)
	GenerateInlineImage(ctx context.Context, model, prompt string) (mimeType string, data string, err error)
	GenerateSpeech(ctx context.Context, model, text, voice string) (mimeType string, data string, err error)
	GenerateImages(ctx context.Context, model, prompt string, count int, aspectRatio string) ([]string, error)
	StartVideo(ctx context.Context, model, prompt, aspectRatio, resolution string) (string, error)
	PollVideo(ctx context.Context, operationName string) (done bool, uri string, err error)
	Download(ctx context.Context, uri string) ([]byte, error)
}
