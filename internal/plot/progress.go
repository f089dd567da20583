package plot

// Phase labels for arc progress, derived from the resolved fraction.
const (
	PhaseNotStarted   = "not started"
	PhaseRising       = "rising"
	PhaseComplication = "complication"
	PhaseClimax       = "climax"
	PhaseResolution   = "resolution"
	PhaseComplete     = "complete"
)

// ArcProgress summarizes how far a story arc has advanced. Ids the arc
// references that are missing from the graph count toward Total but never
// toward Resolved.
type ArcProgress struct {
	ArcName    string  `json:"arc_name"`
	Resolved   int     `json:"resolved"`
	Total      int     `json:"total"`
	Percentage float64 `json:"progress_percentage"`
	Phase      string  `json:"current_phase"`
}

// ArcProgress computes the progress of one arc against the current graph
// snapshot. It is a read-only query with no side effects.
func (g *Graph) ArcProgress(arcID string) (ArcProgress, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	arc, ok := g.arcs[arcID]
	if !ok {
		return ArcProgress{}, &NotFoundError{Kind: "story arc", ID: arcID}
	}

	total := len(arc.PlotPoints)
	resolved := 0
	for _, pid := range arc.PlotPoints {
		if p, ok := g.points[pid]; ok && p.Status == StatusResolved {
			resolved++
		}
	}

	pct := 0.0
	if total > 0 {
		pct = float64(resolved) / float64(total) * 100
	}

	return ArcProgress{
		ArcName:    arc.Name,
		Resolved:   resolved,
		Total:      total,
		Percentage: pct,
		Phase:      arcPhase(resolved, total),
	}, nil
}

// arcPhase maps the resolved fraction onto the fixed dramatic breakpoints.
func arcPhase(resolved, total int) string {
	if total == 0 {
		return PhaseNotStarted
	}
	p := float64(resolved) / float64(total)
	switch {
	case p == 0:
		return PhaseNotStarted
	case p < 0.3:
		return PhaseRising
	case p < 0.6:
		return PhaseComplication
	case p < 0.8:
		return PhaseClimax
	case p < 1.0:
		return PhaseResolution
	default:
		return PhaseComplete
	}
}
