package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("gemini api key is not configured")
	ErrNoCandidates  = errors.New("model returned no candidates")
	ErrNoMedia       = errors.New("model returned no media")
)

// Config holds Generative Language API configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a thin HTTP client over the Generative Language API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a Gemini API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
	}
}

// Part is one piece of multimodal request content.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries raw media bytes, base64-encoded on the wire.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// TextPart builds a text part
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline image part from base64 data
func ImagePart(mimeType, base64Data string) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: base64Data}}
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []Part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseSchema     json.RawMessage `json:"responseSchema,omitempty"`
	ResponseModalities []string        `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig   `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText runs a multimodal generateContent call and returns the first
// candidate's concatenated text.
func (c *Client) GenerateText(ctx context.Context, model string, parts []Part) (string, error) {
	resp, err := c.generateContent(ctx, model, generateContentRequest{
		Contents: []content{{Parts: parts}},
	})
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GenerateJSON runs generateContent in JSON mode with the given response
// schema and returns the raw JSON document.
func (c *Client) GenerateJSON(ctx context.Context, model, systemInstruction, prompt string, schema json.RawMessage) ([]byte, error) {
	req := generateContentRequest{
		Contents: []content{{Parts: []Part{TextPart(prompt)}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	if systemInstruction != "" {
		req.SystemInstruction = &content{Parts: []Part{TextPart(systemInstruction)}}
	}
	resp, err := c.generateContent(ctx, model, req)
	if err != nil {
		return nil, err
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return []byte(stripJSONFence(text)), nil
}

// GenerateInlineImage runs generateContent with the IMAGE modality and
// returns the first inline image produced (nano-banana style models).
func (c *Client) GenerateInlineImage(ctx context.Context, model, prompt string) (mimeType string, data string, err error) {
	resp, err := c.generateContent(ctx, model, generateContentRequest{
		Contents:         []content{{Parts: []Part{TextPart(prompt)}}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE"}},
	})
	if err != nil {
		return "", "", err
	}
	if len(resp.Candidates) == 0 {
		return "", "", ErrNoCandidates
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			return part.InlineData.MimeType, part.InlineData.Data, nil
		}
	}
	return "", "", ErrNoMedia
}

// GenerateSpeech synthesizes speech for text with a prebuilt voice. The
// model's raw PCM output is wrapped in a WAV container so the stored media
// URL plays directly.
func (c *Client) GenerateSpeech(ctx context.Context, model, text, voice string) (mimeType string, data string, err error) {
	cfg := &generationConfig{ResponseModalities: []string{"AUDIO"}}
	if voice != "" {
		sc := &speechConfig{}
		sc.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice
		cfg.SpeechConfig = sc
	}
	resp, err := c.generateContent(ctx, model, generateContentRequest{
		Contents:         []content{{Parts: []Part{TextPart(text)}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", "", err
	}
	if len(resp.Candidates) == 0 {
		return "", "", ErrNoCandidates
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			return normalizeAudio(part.InlineData.MimeType, part.InlineData.Data)
		}
	}
	return "", "", ErrNoMedia
}

type predictImagesRequest struct {
	Instances  []struct {
		Prompt string `json:"prompt"`
	} `json:"instances"`
	Parameters struct {
		SampleCount    int    `json:"sampleCount"`
		AspectRatio    string `json:"aspectRatio,omitempty"`
		OutputMimeType string `json:"outputMimeType,omitempty"`
	} `json:"parameters"`
}

type predictImagesResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateImages runs an Imagen predict call and returns base64 JPEG images.
func (c *Client) GenerateImages(ctx context.Context, model, prompt string, count int, aspectRatio string) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	req := predictImagesRequest{}
	req.Instances = append(req.Instances, struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt})
	req.Parameters.SampleCount = count
	req.Parameters.AspectRatio = aspectRatio
	req.Parameters.OutputMimeType = "image/jpeg"

	var out predictImagesResponse
	if err := c.post(ctx, fmt.Sprintf("/v1beta/models/%s:predict", model), req, &out); err != nil {
		return nil, err
	}
	if len(out.Predictions) == 0 {
		return nil, ErrNoMedia
	}
	images := make([]string, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		images = append(images, p.BytesBase64Encoded)
	}
	return images, nil
}

type videoOperationResponse struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StartVideo kicks off a long-running Veo generation and returns the
// operation name to poll.
func (c *Client) StartVideo(ctx context.Context, model, prompt, aspectRatio, resolution string) (string, error) {
	req := map[string]interface{}{
		"instances": []map[string]string{{"prompt": prompt}},
		"parameters": map[string]interface{}{
			"sampleCount": 1,
			"aspectRatio": aspectRatio,
			"resolution":  resolution,
		},
	}
	var out videoOperationResponse
	if err := c.post(ctx, fmt.Sprintf("/v1beta/models/%s:predictLongRunning", model), req, &out); err != nil {
		return "", err
	}
	if out.Name == "" {
		return "", fmt.Errorf("gemini did not return an operation name")
	}
	return out.Name, nil
}

// PollVideo checks a video operation. When done it returns the download URI.
func (c *Client) PollVideo(ctx context.Context, operationName string) (done bool, uri string, err error) {
	var out videoOperationResponse
	if err := c.get(ctx, "/v1beta/"+operationName, &out); err != nil {
		return false, "", err
	}
	if !out.Done {
		return false, "", nil
	}
	if out.Error != nil {
		return true, "", fmt.Errorf("video generation failed: %s", out.Error.Message)
	}
	samples := out.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 || samples[0].Video.URI == "" {
		return true, "", ErrNoMedia
	}
	return true, samples[0].Video.URI, nil
}

// Download fetches generated media from a file URI returned by an operation.
func (c *Client) Download(ctx context.Context, uri string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+c.apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini download failed: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) generateContent(ctx context.Context, model string, req generateContentRequest) (*generateContentResponse, error) {
	var out generateContentResponse
	if err := c.post(ctx, fmt.Sprintf("/v1beta/models/%s:generateContent", model), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode gemini request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("gemini api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	return c.do(httpReq, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("gemini api call failed: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	return c.do(httpReq, out)
}

func (c *Client) do(httpReq *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gemini api call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gemini api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gemini api returned status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse gemini response: %w", err)
	}
	return nil
}

func firstText(resp *generateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", ErrNoCandidates
	}
	return b.String(), nil
}

// stripJSONFence unwraps a ```json ... ``` fenced block if the model
// wrapped its JSON output in markdown.
func stripJSONFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
