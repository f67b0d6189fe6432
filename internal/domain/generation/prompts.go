package generation

import (
	"encoding/json"
	"fmt"
)

func videoPromptTemplate(language string) string {
	name := languageName(language)
	return fmt.Sprintf(`You are an expert creative director specializing in short-form video content for social media, with a paramount focus on perfect brand representation.
The first image shows an influencer; the remaining images show a single product from multiple angles. Synthesize information from ALL product images.

Generate a detailed prompt for a video generation AI: a compelling 15-second vertical advertisement where the influencer presents the product. The output must be a single block of Markdown text, structured exactly as follows:

**Video Concept:** A brief, engaging concept.

**Scene Description:** The scene, the influencer's actions, and how they interact with the product.

**Influencer Details:**
- **Appearance:** Photographic, precise description of the influencer's key visual characteristics to ensure an identical recreation.
- **Style:** Clothing and overall style.
- **Vibe:** Mood or personality as perceived from the image.

**Product Details (CRITICAL - BE EXTREMELY PRECISE):**
- **Negative Prompt:** Include 'generic logos', 'inaccurate branding', 'stylized or altered logos', 'mismatched fonts'.
- **Style References:** Visual styles for the video.
- **Branding, logos, and text (HIGHEST PRIORITY):** Identify the brand, describe the official logo in extreme detail as a graphical entity. Logo integrity (weight 2.0), exact colors with hex codes (weight 1.8), transparency (weight 1.5), graphical style (weight 1.5), typography only if the logo includes text (weight 1.7). The logo must be a perfect 1:1 replication of the official brand logo.
- **Colors:** All visible colors, with specific descriptive names.
- **Materials, textures, and finish.**
- **Design, shape, and form factor.**
- **Subject details:** Exact match to reference.

**Shot List & Camera Angles:** 2-3 dynamic shots.

**Lighting:** A lighting style that complements the mood.

**Dialogue/Speech:** A short, natural-sounding, persuasive line spoken directly by the influencer, in **%s**: authentic conversational tone, key product benefits, and a call to action pointing to the link in the description.`, name)
}

func productAdTemplate(language string) string {
	name := languageName(language)
	return fmt.Sprintf(`You are an expert creative director specializing in short-form video content for social media, with a paramount focus on perfect brand representation.
The images show a single product from multiple angles and contexts. Synthesize information from ALL of them.

Generate a detailed prompt for a video generation AI: a compelling 15-second vertical advertisement with the product as the hero. The output must be a single block of Markdown text, structured exactly as follows:

**Video Concept:** A brief, engaging concept.

**Scene Description:** A series of dynamic scenes showcasing the product through visual storytelling.

**Product Details (CRITICAL - BE EXTREMELY PRECISE):**
- **Negative Prompt:** Include 'generic logos', 'inaccurate branding', 'stylized or altered logos', 'mismatched fonts'.
- **Style References:** Visual styles for the video.
- **Branding, logos, and text (HIGHEST PRIORITY):** Identify the brand, describe the official logo in extreme detail as a graphical entity. Logo integrity (weight 2.0), exact colors with hex codes (weight 1.8), transparency (weight 1.5), graphical style (weight 1.5), typography only if the logo includes text (weight 1.7). The logo must be a perfect 1:1 replication of the official brand logo.
- **Colors:** All visible colors, with specific descriptive names.
- **Materials, textures, and finish.**
- **Design, shape, and form factor.**
- **Subject details:** Exact match to reference.

**Shot List & Camera Angles:** 3-4 dynamic shots.

**Lighting:** A lighting style that highlights the product's features.

**Voice-over Script:** A short, persuasive, professional voice-over script in **%s**: an attention hook, the product's key benefits, and a strong call to action.`, name)
}

func influencerOnlyTemplate(actions, language string) string {
	name := languageName(language)
	return fmt.Sprintf(`You are an expert creative director for short-form social media video.
The image shows an influencer. Generate a detailed prompt for a video generation AI: a 15-second vertical video of this influencer performing the following actions: %s

The output must be a single block of Markdown text, structured exactly as follows:

**Video Concept:** A brief, engaging concept built around the requested actions.

**Scene Description:** The scene and the influencer's actions.

**Influencer Details:**
- **Appearance:** Photographic, precise description of the influencer's key visual characteristics to ensure an identical recreation.
- **Style:** Clothing and overall style.
- **Vibe:** Mood or personality as perceived from the image.

**Shot List & Camera Angles:** 2-3 dynamic shots.

**Lighting:** A lighting style that complements the mood.

**Dialogue/Speech:** A short, natural line spoken by the influencer in **%s**, matching the requested actions.`, actions, name)
}

const consistencySystemInstruction = `You are a meticulous AI prompt auditor. Analyze the following prompt, intended for a video generation AI, and determine if its descriptions will lead to a visually consistent output identical to the reference images it was based on.

Check for ambiguity or creative language in the 'Influencer Details' and 'Product Details' sections that could cause deviation from the source material. Pay special attention to the brand logo, colors, materials, design, and the influencer's appearance. The prompt must demand an exact photorealistic match, not an 'inspired by' version.

Respond with the specified JSON format. If inconsistent, point out the specific ambiguous part. A good prompt leaves no room for creative interpretation on critical features.`

var consistencySchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"consistent": {
			"type": "BOOLEAN",
			"description": "Is the prompt free of ambiguities that could cause visual deviation from a reference image?"
		},
		"reason": {
			"type": "STRING",
			"description": "A brief explanation for the consistency rating. If inconsistent, identify the ambiguous part."
		}
	},
	"required": ["consistent", "reason"]
}`)

const storyboardSystemInstruction = `You are a storyboard artist for short-form video. Break the user's video idea into 3 to 6 sequential scenes. For each scene produce a concise visual description and a self-contained image generation prompt that captures the scene in a single frame.`

var storyboardSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"scene": {"type": "INTEGER", "description": "1-based scene number"},
			"description": {"type": "STRING", "description": "What happens in the scene"},
			"image_prompt": {"type": "STRING", "description": "A standalone prompt to render the scene as an image"}
		},
		"required": ["scene", "description", "image_prompt"]
	}
}`)
