package gemini

import "strings"

// Safety threshold values accepted by the Generative Language API.
const (
	ThresholdBlockOnlyHigh       = "BLOCK_ONLY_HIGH"
	ThresholdBlockNone           = "BLOCK_NONE"
	ThresholdBlockMediumAndAbove = "BLOCK_MEDIUM_AND_ABOVE"
)

// harmCategories are the categories the threshold is applied to,
// uniformly.
var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// thresholdFor maps the configured safety mode to an API threshold.
func thresholdFor(mode string) string {
	switch strings.ToLower(mode) {
	case "low":
		return ThresholdBlockOnlyHigh
	case "none":
		return ThresholdBlockNone
	default:
		return ThresholdBlockMediumAndAbove
	}
}

// safetySettingsFor builds the uniform safety-setting list for a mode.
func safetySettingsFor(mode string) []safetySetting {
	threshold := thresholdFor(mode)
	settings := make([]safetySetting, 0, len(harmCategories))
	for _, category := range harmCategories {
		settings = append(settings, safetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
	return settings
}
