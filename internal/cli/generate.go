package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/storyteller/internal/engine"
	"github.com/vampirenirmal/storyteller/internal/storage"
)

var (
	genChapter   int
	genMode      string
	genWords     int
	genMood      string
	genTimeOfDay string
	genIntroduce []string
	genResolve   []string
	genScenes    []string
	genThreshold float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single chapter",
	Long: `Generate one chapter with the configured model and save it to the
output directory. If the result falls short of the target word count by
more than the threshold, the chapter is continued automatically.

Examples:
  storyteller generate --chapter 1 --mode frame --words 3000 --mood melancholic
  storyteller generate --chapter 2 --mode inner --words 4000 \
    --introduce muse_secret --scenes "the muse at the archive"`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVar(&genChapter, "chapter", 1, "Chapter number")
	generateCmd.Flags().StringVar(&genMode, "mode", "inner", "Narrative mode: frame or inner")
	generateCmd.Flags().IntVar(&genWords, "words", 3000, "Target word count")
	generateCmd.Flags().StringVar(&genMood, "mood", "reflective", "Chapter mood")
	generateCmd.Flags().StringVar(&genTimeOfDay, "time-of-day", "", "Time of day within the story")
	generateCmd.Flags().StringSliceVar(&genIntroduce, "introduce", nil, "Plot point ids to introduce")
	generateCmd.Flags().StringSliceVar(&genResolve, "resolve", nil, "Plot point ids to resolve")
	generateCmd.Flags().StringSliceVar(&genScenes, "scenes", nil, "Key scene hints")
	generateCmd.Flags().Float64Var(&genThreshold, "length-threshold", 0.2, "Allowed deviation from target length before auto-continuing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, eng, store, err := setup()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Limits.TotalTimeout)
	defer cancel()

	chCfg := engine.ChapterConfig{
		ChapterNumber:   genChapter,
		Mode:            engine.Mode(genMode),
		TargetWordCount: genWords,
		Mood:            genMood,
		TimeOfDay:       genTimeOfDay,
		Introduce:       genIntroduce,
		Resolve:         genResolve,
		KeyScenes:       genScenes,
	}

	fmt.Println(mutedStyle.Render(fmt.Sprintf("→ Generating chapter %d (%s)...", genChapter, genMode)))
	text, md, err := eng.GenerateChapter(ctx, chCfg)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Chapter %d generated: %d words", md.ChapterNumber, md.WordCount)))

	// Top up short chapters once before saving.
	if short, msg := eng.NeedsAdjustment(genChapter, genThreshold); short && md.WordCount < genWords {
		fmt.Println(mutedStyle.Render("→ " + msg + ", continuing..."))
		if _, err := eng.ContinueChapter(ctx, genChapter, genWords-md.WordCount); err != nil {
			return err
		}
		text, _ = eng.Chapter(genChapter)
		extended, _ := eng.Metadata(genChapter)
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Extended to %d words", extended.WordCount)))
	}

	path := filepath.Join(storage.SessionDir(eng.SessionID()), storage.ChapterFilename(genChapter, "txt"))
	if err := store.Save(ctx, path, []byte(text)); err != nil {
		return fmt.Errorf("saving chapter: %w", err)
	}
	fmt.Println(bodyStyle.Render("Saved to " + path))

	return nil
}
