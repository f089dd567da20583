package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/storyteller/internal/plot"
)

var plotsCmd = &cobra.Command{
	Use:   "plots",
	Short: "Show the plot graph: points, arcs and mysteries",
	RunE:  runPlots,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest the next plot developments",
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(plotsCmd)
	rootCmd.AddCommand(suggestCmd)
}

func runPlots(cmd *cobra.Command, args []string) error {
	graph := plot.DefaultGraph()

	fmt.Println(headerStyle.Render("Plot points"))
	for _, p := range graph.Points() {
		line := fmt.Sprintf("[%s/%s] %s — %s", p.Status, p.Importance, p.ID, p.Title)
		if len(p.Dependencies) > 0 {
			line += mutedStyle.Render(" (after " + strings.Join(p.Dependencies, ", ") + ")")
		}
		fmt.Println(bodyStyle.Render(line))
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Story arcs"))
	for _, arc := range graph.Arcs() {
		progress, err := graph.ArcProgress(arc.ID)
		if err != nil {
			continue
		}
		fmt.Println(bodyStyle.Render(fmt.Sprintf("%s: %.0f%% (%d/%d), %s",
			arc.Name, progress.Percentage, progress.Resolved, progress.Total, progress.Phase)))
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Mysteries"))
	if open := graph.UnresolvedMysteries(); len(open) > 0 {
		fmt.Println(bodyStyle.Render("Open:     " + strings.Join(open, ", ")))
	}
	if revealed := graph.RevealedSecrets(); len(revealed) > 0 {
		fmt.Println(bodyStyle.Render("Revealed: " + strings.Join(revealed, ", ")))
	}

	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	graph := plot.DefaultGraph()
	s := graph.SuggestNextDevelopment()

	if len(s.Immediate) > 0 {
		fmt.Println(headerStyle.Render("Resolve soon (too many critical threads open)"))
		for _, p := range s.Immediate {
			fmt.Println(bodyStyle.Render(fmt.Sprintf("- %s: %s", p.ID, p.Title)))
		}
		fmt.Println()
	}

	fmt.Println(headerStyle.Render("Ready to introduce"))
	if len(s.Ready) == 0 {
		fmt.Println(mutedStyle.Render("(nothing ready)"))
	}
	for _, p := range s.Ready {
		fmt.Println(bodyStyle.Render(fmt.Sprintf("- %s: %s", p.ID, p.Title)))
	}

	if len(s.Building) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Still building"))
		for _, b := range s.Building {
			fmt.Println(bodyStyle.Render(fmt.Sprintf("- %s waits on %s",
				b.Plot.ID, strings.Join(b.Needs, ", "))))
		}
	}

	return nil
}
