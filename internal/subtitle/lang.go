package subtitle

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage guesses the dominant language of a track from its joined
// dialogue text. Returns an empty string when there is not enough text to
// make a confident call.
func DetectLanguage(entries []Entry) string {
	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(entry.Text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return ""
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}

	return info.Lang.Iso6391()
}
