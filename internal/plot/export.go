package plot

// PointState is the exportable summary of one plot point.
type PointState struct {
	Title      string     `json:"title"`
	Status     Status     `json:"status"`
	Importance Importance `json:"importance"`
	Introduced int        `json:"introduced,omitempty"`
	Resolved   int        `json:"resolved,omitempty"`
}

// ArcState is the exportable summary of one story arc.
type ArcState struct {
	Name     string      `json:"name"`
	Progress ArcProgress `json:"progress"`
}

// State is a structured snapshot of the whole graph, sufficient for the
// external export layer to persist. The graph does not define file paths
// or formats.
type State struct {
	PlotPoints          map[string]PointState `json:"plot_points"`
	StoryArcs           map[string]ArcState   `json:"story_arcs"`
	UnresolvedMysteries []string              `json:"unresolved_mysteries"`
	RevealedSecrets     []string              `json:"revealed_secrets"`
}

// ExportState produces a read-only snapshot of plot, arc and mystery state.
func (g *Graph) ExportState() State {
	g.mu.RLock()
	points := make(map[string]PointState, len(g.points))
	for id, p := range g.points {
		points[id] = PointState{
			Title:      p.Title,
			Status:     p.Status,
			Importance: p.Importance,
			Introduced: p.ChapterIntroduced,
			Resolved:   p.ChapterResolved,
		}
	}
	arcIDs := make([]string, len(g.arcOrder))
	copy(arcIDs, g.arcOrder)
	unresolved := sortedKeys(g.unresolved)
	revealed := sortedKeys(g.revealed)
	g.mu.RUnlock()

	// ArcProgress takes the read lock itself.
	arcs := make(map[string]ArcState, len(arcIDs))
	for _, id := range arcIDs {
		progress, err := g.ArcProgress(id)
		if err != nil {
			continue
		}
		arcs[id] = ArcState{Name: progress.ArcName, Progress: progress}
	}

	return State{
		PlotPoints:          points,
		StoryArcs:           arcs,
		UnresolvedMysteries: unresolved,
		RevealedSecrets:     revealed,
	}
}
