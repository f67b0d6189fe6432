package generation

// Credit costs per feature. Full video rendering is the only expensive one.
const (
	CostVideoPrompt      = 1
	CostProductAdPrompt  = 1
	CostInfluencerPrompt = 1
	CostConsistencyCheck = 1
	CostImage            = 1
	CostSpeech           = 1
	CostStoryboard       = 1
	CostSceneImage       = 1
	CostVideo            = 5
)

// MaxSpeechCharacters bounds text-to-speech input.
const MaxSpeechCharacters = 1000

// StoryboardScene is one scene of a generated storyboard.
type StoryboardScene struct {
	Scene       int    `json:"scene"`
	Description string `json:"description"`
	ImagePrompt string `json:"image_prompt"`
}

// ConsistencyResult is the verdict of a prompt consistency audit.
type ConsistencyResult struct {
	Consistent bool   `json:"consistent"`
	Reason     string `json:"reason"`
}

// Voices are the prebuilt TTS voices offered to users.
var Voices = []string{"Kore", "Puck", "Charon", "Zephyr", "Fenrir"}

// IsValidVoice reports whether the voice is offered.
func IsValidVoice(voice string) bool {
	for _, v := range Voices {
		if v == voice {
			return true
		}
	}
	return false
}

var languageNames = map[string]string{
	"en": "English",
	"pt": "Portuguese (Brazil)",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
	"af": "Afrikaans",
	"zh": "Chinese",
	"ja": "Japanese",
	"ar": "Arabic",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}
