package cli

import (
	"testing"

	"subweave/internal/subtitle"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    subtitle.Format
		wantErr bool
	}{
		{"srt", subtitle.FormatSRT, false},
		{"SRT", subtitle.FormatSRT, false},
		{"vtt", subtitle.FormatVTT, false},
		{"ass", subtitle.FormatASS, false},
		{"ttml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := parseOutputFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseOutputFormat(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseOutputFormat(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidOpenAITranscriptLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"", true},
		{"native", true},
		{"Native", true},
		{" native ", true},
		{"english", true},
		{"ENGLISH", true},
		{"en", true},
		{" en ", true},

		{"spanish", false},
		{"french", false},
		{"japanese", false},
		{"es", false},
		{"ja", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := isValidOpenAITranscriptLanguage(tt.lang)
			if got != tt.want {
				t.Errorf(
					"isValidOpenAITranscriptLanguage(%q) = %v, want %v",
					tt.lang,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestIsValidGeminiModel(t *testing.T) {
	if !isValidGeminiModel("gemini-2.5-flash") {
		t.Error("gemini-2.5-flash should be valid")
	}
	if isValidGeminiModel("gemini-1.0-ultra") {
		t.Error("unknown model should be invalid")
	}
}

func TestIsValidOpenAIModel(t *testing.T) {
	if !isValidOpenAIModel("gpt-5-mini") {
		t.Error("gpt-5-mini should be valid")
	}
	if isValidOpenAIModel("gpt-3.5-turbo") {
		t.Error("retired model should be invalid")
	}
}
