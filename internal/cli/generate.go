package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subweave/internal/media"
	"subweave/internal/provider"
	"subweave/internal/subtitle"
	"subweave/internal/track"
	"subweave/internal/transcribe"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate a subtitle track from an audio or video file",
	Long: `Generate a subtitle track for the specified audio or video file
using AI transcription.

The command accepts both audio files (mp3, wav, aac, etc.) and video
files (mp4, mkv, etc.). For video files, audio is automatically extracted
before transcription.

The audio is split into chunks and transcribed in parallel. Generated
tracks can be written in SRT, VTT, or ASS format.

Examples:
  subweave generate video.mp4
  subweave generate audio.mp3 --format vtt
  subweave generate video.mp4 --provider openai --api-key YOUR_KEY
  subweave generate podcast.mp3 -f srt -d 2 --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY env var)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 1, "Chunk duration in minutes for splitting audio")
	generateCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
	generateCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific, uses sensible defaults)")
	generateCmd.Flags().
		String("provider", "gemini", "Transcription provider (gemini, openai)")
	generateCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', or 'native' for original language)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	chunkMinutes, _ := cmd.Flags().GetInt("chunk-duration")
	formatStr, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	model, _ := cmd.Flags().GetString("model")
	backendStr, _ := cmd.Flags().GetString("provider")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")

	backend := transcribe.Backend(backendStr)

	if apiKey == "" {
		switch backend {
		case transcribe.BackendGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		case transcribe.BackendOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		default:
			return fmt.Errorf(
				"unsupported transcription provider %q: use gemini or openai",
				backendStr,
			)
		}
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set the provider's environment variable",
		)
	}

	if backend == transcribe.BackendOpenAI &&
		!isValidOpenAITranscriptLanguage(transcriptLang) {
		return fmt.Errorf(
			"OpenAI transcription only outputs the native language or English, got %q",
			transcriptLang,
		)
	}

	if chunkMinutes <= 0 {
		return fmt.Errorf(
			"chunk-duration must be positive, got %d",
			chunkMinutes,
		)
	}

	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"format", formatStr,
		"provider", backendStr,
		"chunk_duration", chunkMinutes,
		"concurrency", concurrency,
	)

	transcriber, err := transcribe.New(ctx, backend, apiKey, transcribe.Options{
		Language:           language,
		TranscriptLanguage: transcriptLang,
		Model:              model,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	opts := provider.DefaultTranscriptionOptions()
	opts.ChunkDuration = time.Duration(chunkMinutes) * time.Minute
	opts.Concurrency = concurrency

	ctrl := track.New(provider.NewTranscription(mediaPath, transcriber, opts))
	if err := ctrl.Initialize(ctx); err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"entries", ctrl.Len(),
	)

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	if err := writer.Write(ctrl.Entries(), outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", ctrl.Len())

	return nil
}
