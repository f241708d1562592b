package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
	"subweave/internal/track"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [subtitle_file] [other_subtitle_file]",
	Short: "Weave two subtitle tracks into one",
	Long: `Weave two subtitle tracks into a single track. Entries from both
tracks whose start times fall within the tolerance window are combined
into one entry carrying both texts; everything else is kept as-is in
time order.

The typical use is combining two translations of the same material into
a bilingual track.

Examples:
  subweave merge movie.en.srt movie.es.srt
  subweave merge movie.en.srt movie.es.srt --delta 1s -o bilingual.srt
  subweave merge movie.en.srt movie.es.srt --join " / " --format vtt`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		Duration("delta", 500*time.Millisecond, "Start-time tolerance for pairing entries across tracks")
	mergeCmd.Flags().
		String("join", "\n", "Separator placed between the two texts of a paired entry")
	mergeCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	targetPath := args[1]
	ctx := context.Background()

	delta, _ := cmd.Flags().GetDuration("delta")
	joinWith, _ := cmd.Flags().GetString("join")
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	for _, path := range []string{sourcePath, targetPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("subtitle file not found: %s", path)
		}
	}

	format, err := parseOutputFormat(formatStr)
	if err != nil {
		return err
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
		outputPath = baseName + ".merged" +
			subtitle.GetExtensionForFormat(format)
	}

	source := track.New(provider.NewFile(sourcePath))
	if err := source.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load %s: %w", sourcePath, err)
	}

	target := track.New(provider.NewFile(targetPath))
	if err := target.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load %s: %w", targetPath, err)
	}

	logger.Infow("Merging tracks",
		"source", sourcePath,
		"source_entries", source.Len(),
		"target", targetPath,
		"target_entries", target.Len(),
		"delta", delta.String(),
	)

	merged, err := track.Merge(ctx, source, target, delta, joinWith)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	if err := writer.Write(merged.Entries(), outputPath); err != nil {
		return fmt.Errorf("failed to write merged track: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Tracks merged successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", merged.Len())

	return nil
}
