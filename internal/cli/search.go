package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
	"subweave/internal/track"
)

var searchCmd = &cobra.Command{
	Use:   "search [subtitle_file] [timestamp]",
	Short: "Find the subtitle entry shown at a playback position",
	Long: `Find the subtitle entry that is on screen at the given playback
position. Without a timestamp the whole track is listed.

Timestamps accept Go duration syntax (90s, 1m30s) or subtitle clock
syntax (00:01:30,500).

By default a binary search returns the single entry containing the
position. With --all a linear scan reports every entry whose interval
contains the position, which matters for tracks with overlapping cues.

Examples:
  subweave search movie.srt 1m30s
  subweave search movie.srt 00:42:07,250 --all
  subweave search movie.srt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().
		Bool("all", false, "Report every entry containing the position, including overlaps")
	searchCmd.Flags().
		String("separator", "\n", "Separator between entries when listing the track")
}

func runSearch(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	all, _ := cmd.Flags().GetBool("all")
	separator, _ := cmd.Flags().GetString("separator")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	ctrl := track.New(provider.NewFile(subtitlePath))
	if err := ctrl.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load subtitle file: %w", err)
	}

	logger.Debugw("Loaded track",
		"input", subtitlePath,
		"entries", ctrl.Len(),
	)

	if len(args) == 1 {
		fmt.Println(ctrl.GetAll(separator))
		return nil
	}

	at, err := subtitle.ParseTimestamp(args[1])
	if err != nil {
		return err
	}

	if all {
		matches := ctrl.MultiDurationSearch(at)
		if len(matches) == 0 {
			fmt.Printf("No entry at %s\n", at)
			return nil
		}
		for _, entry := range matches {
			fmt.Println(entry.String())
		}
		return nil
	}

	entry, err := ctrl.DurationSearch(at)
	if err != nil {
		return err
	}
	if entry == nil {
		fmt.Printf("No entry at %s\n", at)
		return nil
	}

	fmt.Println(entry.String())
	return nil
}
