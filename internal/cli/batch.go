package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/storyteller/internal/engine"
)

var (
	batchStart  int
	batchCount  int
	batchWords  int
	batchTitle  string
	batchFormat string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate a run of chapters and export them as a book",
	Long: `Generate several chapters in sequence, alternating narrative modes,
then export the full set plus the plot state to the output directory.

Every third chapter starting from the first is a frame chapter; the rest
are inner narration.

Example:
  storyteller batch --start 1 --count 6 --words 3000 --title "The Silent Doors"`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchStart, "start", 1, "First chapter number")
	batchCmd.Flags().IntVar(&batchCount, "count", 3, "Number of chapters to generate")
	batchCmd.Flags().IntVar(&batchWords, "words", 3000, "Target word count per chapter")
	batchCmd.Flags().StringVar(&batchTitle, "title", "untitled", "Book title used for the export directory")
	batchCmd.Flags().StringVar(&batchFormat, "format", "txt", "Export format: txt or json")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, eng, store, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Limits.TotalTimeout)
	defer cancel()

	for i := batchStart; i < batchStart+batchCount; i++ {
		mode := engine.ModeInner
		if i%3 == 1 {
			mode = engine.ModeFrame
		}

		fmt.Println(mutedStyle.Render(fmt.Sprintf("→ Chapter %d (%s)...", i, mode)))
		_, md, err := eng.GenerateChapter(ctx, engine.ChapterConfig{
			ChapterNumber:   i,
			Mode:            mode,
			TargetWordCount: batchWords,
			Mood:            "reflective",
		})
		if err != nil {
			return fmt.Errorf("chapter %d: %w", i, err)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Chapter %d: %d words", i, md.WordCount)))
	}

	if err := eng.ExportBook(ctx, store, batchTitle, engine.ExportFormat(batchFormat)); err != nil {
		return fmt.Errorf("exporting book: %w", err)
	}

	stats := eng.Stats()
	fmt.Println()
	fmt.Println(headerStyle.Render("Session summary"))
	fmt.Println(bodyStyle.Render(fmt.Sprintf("Session:        %s", stats.SessionID)))
	fmt.Println(bodyStyle.Render(fmt.Sprintf("Chapters:       %d", stats.ChaptersGenerated)))
	fmt.Println(bodyStyle.Render(fmt.Sprintf("Total words:    %d (avg %.0f per chapter)", stats.TotalWords, stats.AverageWords)))
	fmt.Println(bodyStyle.Render(fmt.Sprintf("Reading time:   ~%d min", engine.EstimateReadingTime(stats.TotalWords))))
	fmt.Println(bodyStyle.Render(fmt.Sprintf("Active plots:   %d", stats.ActivePlots)))
	fmt.Println(bodyStyle.Render(fmt.Sprintf("Mysteries:      %d open, %d revealed", stats.RemainingMysteries, stats.ResolvedMysteries)))

	return nil
}
