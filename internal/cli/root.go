package cli

import (
	"github.com/spf13/cobra"

	"subweave/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subweave",
	Short: "Subtitle track toolkit: search, merge, translate, generate",
	Long: `Subweave works with subtitle tracks as time-ordered sequences of
entries. It can look up the entry shown at a given playback position, weave
two tracks into one bilingual track, translate tracks with AI, and generate
tracks from audio or video through AI transcription.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
