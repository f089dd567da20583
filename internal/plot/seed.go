package plot

// DefaultGraph builds the graph pre-loaded with the planned beats, arcs and
// carried-over mysteries for the third book of the chronicle.
func DefaultGraph() *Graph {
	g := New()

	criticalPlots := []PlotPoint{
		{
			ID:                 "kings_death",
			Title:              "The killing of the king",
			Description:        "How and why the hero killed the king",
			Importance:         ImportanceCritical,
			Status:             StatusPlanned,
			CharactersInvolved: []string{"The Hero", "The King"},
			Revelations:        []string{"The true reason for the killing", "Consequences for the realm"},
		},
		{
			ID:                 "shadow_confrontation",
			Title:              "The final confrontation with the Shadowed Seven",
			Description:        "The hero at last faces the killers of his family",
			Importance:         ImportanceCritical,
			Status:             StatusPlanned,
			CharactersInvolved: []string{"The Hero", "The Pale Lord", "The Cold One"},
			Dependencies:       []string{"order_truth", "muse_secret"},
		},
		{
			ID:          "stone_doors",
			Title:       "The secret of the doors of stone",
			Description: "What waits behind the sealed doors",
			Importance:  ImportanceCritical,
			Status:      StatusPlanned,
			Revelations: []string{"The nature of the doors", "The bound one within", "The key to victory"},
		},
		{
			ID:           "heros_unmaking",
			Title:        "The unmaking of the hero",
			Description:  "How the legend became a broken innkeeper",
			Importance:   ImportanceCritical,
			Status:       StatusPlanned,
			Consequences: []string{"Loss of power", "A changed name", "Self-imposed exile"},
		},
		{
			ID:                 "muse_revelation",
			Title:              "The truth about the muse",
			Description:        "The muse's secret and the identity of her patron",
			Importance:         ImportanceCritical,
			Status:             StatusPlanned,
			CharactersInvolved: []string{"The Hero", "The Muse", "The Patron"},
			Revelations:        []string{"The patron's identity", "The muse's true aims"},
		},
	}
	for _, p := range criticalPlots {
		g.Add(p)
	}

	arcs := []StoryArc{
		{
			ID:          "return_of_power",
			Name:        "The return of power",
			Description: "The innkeeper slowly recovers what he gave up",
			Themes:      []string{"Identity", "Redemption", "Accepting the past"},
		},
		{
			ID:          "shadow_hunt",
			Name:        "The hunt for the Shadowed Seven",
			Description: "The search for, and reckoning with, the Shadowed Seven",
			Themes:      []string{"Vengeance", "Justice", "The price of revenge"},
			PlotPoints:  []string{"shadow_confrontation"},
		},
		{
			ID:          "love_tragedy",
			Name:        "The tragedy of love",
			Description: "The end of the hero and the muse",
			Themes:      []string{"Love", "Betrayal", "Forgiveness"},
			PlotPoints:  []string{"muse_revelation"},
		},
		{
			ID:          "legend_vs_man",
			Name:        "Legend against the man",
			Description: "The conflict between the hero of the stories and the man behind them",
			Themes:      []string{"Identity", "Fame", "Humanity"},
			PlotPoints:  []string{"heros_unmaking"},
		},
	}
	for _, arc := range arcs {
		// Seeded arcs reference seeded points only; registration cannot fail.
		_ = g.AddArc(arc)
	}

	// Mysteries left open by the first two books.
	g.SeedMysteries(
		"sealed_box",
		"order_purpose",
		"shadow_curse",
		"oracle_prophecy",
		"undercity_girl",
		"apprentice_plans",
		"skin_changers",
		"spider_origin",
		"waystone_meaning",
	)

	return g
}
