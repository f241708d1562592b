package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
	"subweave/internal/track"
	"subweave/internal/translate"
)

var bilingualCmd = &cobra.Command{
	Use:   "bilingual [subtitle_file]",
	Short: "Translate a track and weave it with the original",
	Long: `Translate a subtitle track to another language with AI and weave
the translation together with the original into a bilingual track. Each
entry shows the translated text above the original text.

Translation runs in batches over parallel workers.

Examples:
  subweave bilingual movie.srt --target-language spanish
  subweave bilingual movie.srt -t japanese --provider anthropic
  subweave bilingual movie.srt -t french --model gemini-2.5-pro -o out.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runBilingual,
}

func init() {
	rootCmd.AddCommand(bilingualCmd)

	bilingualCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	bilingualCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	bilingualCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	bilingualCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	bilingualCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	bilingualCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	bilingualCmd.Flags().
		Int("batch-size", 50, "Number of subtitle entries per API request")
	bilingualCmd.Flags().
		Duration("delta", 0, "Start-time tolerance when pairing translated and original entries")
	bilingualCmd.Flags().
		String("join", "\n", "Separator between translated and original text")
	bilingualCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")

	_ = bilingualCmd.MarkFlagRequired("target-language")
}

func runBilingual(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	backendStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	delta, _ := cmd.Flags().GetDuration("delta")
	joinWith, _ := cmd.Flags().GetString("join")
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	inputLang, _ := cmd.Flags().GetString("language")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	backend := translate.Backend(backendStr)

	apiKey, err := resolveAPIKey(apiKey, backend)
	if err != nil {
		return err
	}

	if model != "" && !modelOverride {
		switch backend {
		case translate.BackendGemini:
			if !isValidGeminiModel(model) {
				return fmt.Errorf(
					"unsupported Gemini model %q (use --model-override to bypass)",
					model,
				)
			}
		case translate.BackendOpenAI:
			if !isValidOpenAIModel(model) {
				return fmt.Errorf(
					"unsupported OpenAI model %q (use --model-override to bypass)",
					model,
				)
			}
		}
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		outputPath = fmt.Sprintf(
			"%s.%s.bilingual%s",
			baseName,
			targetLang,
			subtitle.GetExtensionForFormat(format),
		)
	}

	original := track.New(provider.NewFile(subtitlePath))
	if err := original.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load subtitle file: %w", err)
	}
	if original.Len() == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	if inputLang == "" {
		if detected := subtitle.DetectLanguage(original.Entries()); detected != "" {
			inputLang = detected
			logger.Infow("Detected source language",
				"language", detected,
			)
		}
	}

	logger.Infow("Starting bilingual generation",
		"input", subtitlePath,
		"output", outputPath,
		"entries", original.Len(),
		"target_language", targetLang,
		"input_language", inputLang,
		"provider", backendStr,
	)

	opts := translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
	}

	translator, err := translate.New(ctx, backend, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Translating entries",
		"concurrency", concurrency,
		"batch_size", batchSize,
	)

	translated, err := translate.Entries(
		ctx,
		translator,
		original.Entries(),
		batchSize,
		concurrency,
	)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	translatedTrack := track.New(provider.NewStatic(translated))
	if err := translatedTrack.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to build translated track: %w", err)
	}

	logger.Infow("Weaving tracks",
		"delta", delta.String(),
	)

	merged, err := track.Merge(ctx, translatedTrack, original, delta, joinWith)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	if err := writer.Write(merged.Entries(), outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Bilingual subtitles created successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", merged.Len())
	fmt.Printf("  Target language: %s\n", targetLang)

	return nil
}

func resolveAPIKey(apiKey string, backend translate.Backend) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}

	var envVar string
	switch backend {
	case translate.BackendGemini:
		envVar = "GEMINI_API_KEY"
	case translate.BackendOpenAI:
		envVar = "OPENAI_API_KEY"
	case translate.BackendAnthropic:
		envVar = "ANTHROPIC_API_KEY"
	default:
		return "", fmt.Errorf(
			"unsupported translation provider %q: use gemini, openai, or anthropic",
			backend,
		)
	}

	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}
