package generation

// ImageUpload is a base64 reference image attached to a prompt request.
type ImageUpload struct {
	MimeType string `json:"mime_type" validate:"required"`
	Data     string `json:"data" validate:"required"` // base64
}

// VideoPromptRequest for POST /generate/video-prompt
type VideoPromptRequest struct {
	InfluencerImage ImageUpload   `json:"influencer_image" validate:"required"`
	ProductImages   []ImageUpload `json:"product_images" validate:"required,min=1,max=6"`
	Language        string        `json:"language" validate:"language"`
}

// ProductAdPromptRequest for POST /generate/product-ad-prompt
type ProductAdPromptRequest struct {
	ProductImages []ImageUpload `json:"product_images" validate:"required,min=1,max=6"`
	Language      string        `json:"language" validate:"language"`
}

// InfluencerPromptRequest for POST /generate/influencer-prompt
type InfluencerPromptRequest struct {
	InfluencerImage ImageUpload `json:"influencer_image" validate:"required"`
	Actions         string      `json:"actions" validate:"required,max=2000"`
	Language        string      `json:"language" validate:"language"`
}

// ConsistencyRequest for POST /generate/consistency-check
type ConsistencyRequest struct {
	Prompt string `json:"prompt" validate:"required,max=20000"`
}

// ImageRequest for POST /generate/image
type ImageRequest struct {
	Prompt      string `json:"prompt" validate:"required,max=4000"`
	Count       int    `json:"count" validate:"omitempty,min=1,max=4"`
	AspectRatio string `json:"aspect_ratio" validate:"aspect_ratio"`
	Model       string `json:"model" validate:"omitempty,oneof=imagen flash-image"`
}

// SpeechRequest for POST /generate/speech
type SpeechRequest struct {
	Text  string `json:"text" validate:"required"`
	Voice string `json:"voice" validate:"required"`
}

// StoryboardRequest for POST /generate/storyboard
type StoryboardRequest struct {
	Concept string `json:"concept" validate:"required,max=4000"`
}

// SceneImageRequest for POST /generate/scene-image
type SceneImageRequest struct {
	ImagePrompt string `json:"image_prompt" validate:"required,max=4000"`
}

// VideoRequest for POST /generate/video
type VideoRequest struct {
	Prompt      string `json:"prompt" validate:"required,max=20000"`
	AspectRatio string `json:"aspect_ratio" validate:"aspect_ratio"`
}

// PromptResponse carries a generated text prompt.
type PromptResponse struct {
	Prompt string `json:"prompt"`
}

// MediaResponse carries stored media URLs.
type MediaResponse struct {
	URLs []string `json:"urls"`
}
