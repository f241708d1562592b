package cli

import (
	"fmt"
	"strings"

	"subweave/internal/subtitle"
)

func parseOutputFormat(s string) (subtitle.Format, error) {
	switch strings.ToLower(s) {
	case "srt":
		return subtitle.FormatSRT, nil
	case "vtt":
		return subtitle.FormatVTT, nil
	case "ass":
		return subtitle.FormatASS, nil
	default:
		return "", fmt.Errorf(
			"unsupported format %q: use srt, vtt, or ass",
			s,
		)
	}
}

var validGeminiModels = map[string]bool{
	"gemini-3-pro-preview":   true,
	"gemini-3-flash-preview": true,
	"gemini-2.5-pro":         true,
	"gemini-2.5-flash":       true,
	"gemini-2.5-flash-lite":  true,
}

func isValidGeminiModel(model string) bool {
	return validGeminiModels[model]
}

var validOpenAIModels = map[string]bool{
	"o1":          true,
	"o3-mini":     true,
	"o1-pro":      true,
	"o3":          true,
	"gpt-5":       true,
	"gpt-5-nano":  true,
	"gpt-5-mini":  true,
	"gpt-5-pro":   true,
	"gpt-5.1":     true,
	"gpt-5.2":     true,
	"gpt-5.2-pro": true,
}

func isValidOpenAIModel(model string) bool {
	return validOpenAIModels[model]
}

// Whisper's translation endpoint only outputs English; anything else must
// stay in the source language.
func isValidOpenAITranscriptLanguage(lang string) bool {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	return normalized == "" ||
		normalized == "native" ||
		normalized == "english" ||
		normalized == "en"
}
