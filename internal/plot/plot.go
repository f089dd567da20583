// Package plot tracks the dependency graph of planned story beats.
//
// A Graph owns the plot points, the story arcs that group them, and the
// mystery ledger (the unresolved/revealed partition). All mutation goes
// through Add, Introduce and Resolve; callers never reach into the
// underlying maps.
package plot

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Status is the lifecycle state of a plot point.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusActive     Status = "active"
	StatusResolved   Status = "resolved"
	StatusAbandoned  Status = "abandoned"
	StatusBackground Status = "background"
)

// Importance ranks how central a plot point is to the story.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceMajor    Importance = "major"
	ImportanceMinor    Importance = "minor"
	ImportanceFlavor   Importance = "flavor"
)

// PlotPoint is a discrete story beat. ChapterIntroduced and ChapterResolved
// are zero until set; valid chapter numbers start at 1.
type PlotPoint struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Importance         Importance `json:"importance"`
	Status             Status     `json:"status"`
	ChapterIntroduced  int        `json:"chapter_introduced,omitempty"`
	ChapterResolved    int        `json:"chapter_resolved,omitempty"`
	Dependencies       []string   `json:"dependencies,omitempty"`
	Consequences       []string   `json:"consequences,omitempty"`
	CharactersInvolved []string   `json:"characters_involved,omitempty"`
	Locations          []string   `json:"locations,omitempty"`
	Foreshadowing      []string   `json:"foreshadowing,omitempty"`
	Revelations        []string   `json:"revelations,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

// StoryArc is a named ordered grouping of plot points used for progress
// reporting. Arcs are read-only after registration.
type StoryArc struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PlotPoints    []string `json:"plot_points,omitempty"`
	StartChapter  int      `json:"start_chapter,omitempty"`
	ClimaxChapter int      `json:"climax_chapter,omitempty"`
	EndChapter    int      `json:"end_chapter,omitempty"`
	Themes        []string `json:"themes,omitempty"`
}

// SyncPoint records a frame/inner timeline correspondence for one chapter.
type SyncPoint struct {
	Chapter    int       `json:"chapter"`
	FrameEvent string    `json:"frame_event"`
	InnerEvent string    `json:"inner_event"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Graph holds the plot-point store, arcs and the mystery ledger.
// All methods are safe for concurrent use.
type Graph struct {
	mu         sync.RWMutex
	points     map[string]*PlotPoint
	order      []string // insertion order of point ids, for deterministic iteration
	arcs       map[string]*StoryArc
	arcOrder   []string
	unresolved map[string]struct{}
	revealed   map[string]struct{}
	timeline   []SyncPoint
	logger     *slog.Logger
}

// New returns an empty graph. Use DefaultGraph for the seeded book state.
func New() *Graph {
	return &Graph{
		points:     make(map[string]*PlotPoint),
		arcs:       make(map[string]*StoryArc),
		unresolved: make(map[string]struct{}),
		revealed:   make(map[string]struct{}),
		logger:     slog.Default().With("component", "plot_graph"),
	}
}

// trackMystery enters id into the ledger. An id that has already been
// revealed stays revealed; otherwise it becomes unresolved. This is the
// single place the exactly-one-set invariant is enforced on entry.
func (g *Graph) trackMystery(id string) {
	if _, ok := g.revealed[id]; ok {
		return
	}
	g.unresolved[id] = struct{}{}
}

// revealMystery moves id from unresolved to revealed. Ids never tracked as
// mysteries are left alone; a point can resolve without ever being one.
func (g *Graph) revealMystery(id string) {
	if _, ok := g.unresolved[id]; !ok {
		return
	}
	delete(g.unresolved, id)
	g.revealed[id] = struct{}{}
}

// Add inserts a plot point, overwriting any existing point with the same id.
// Points added in ACTIVE status are tracked as unresolved mysteries.
func (g *Graph) Add(p PlotPoint) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.points[p.ID]; !exists {
		g.order = append(g.order, p.ID)
	}
	cp := p
	g.points[p.ID] = &cp

	if p.Status == StatusActive {
		g.trackMystery(p.ID)
	}

	g.logger.Debug("plot point added",
		"plot_id", p.ID,
		"status", p.Status,
		"importance", p.Importance)
}

// AddArc registers a story arc. Every plot point the arc references must
// already exist in the graph; a dangling reference is a caller error.
func (g *Graph) AddArc(arc StoryArc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, pid := range arc.PlotPoints {
		if _, ok := g.points[pid]; !ok {
			return &NotFoundError{Kind: "plot point", ID: pid}
		}
	}

	if _, exists := g.arcs[arc.ID]; !exists {
		g.arcOrder = append(g.arcOrder, arc.ID)
	}
	cp := arc
	g.arcs[arc.ID] = &cp

	g.logger.Debug("story arc added",
		"arc_id", arc.ID,
		"plot_points", len(arc.PlotPoints))
	return nil
}

// SeedMysteries marks ids as initially unresolved. The ids need not exist
// as plot points; carried-over mysteries from earlier books are tracked by
// id alone.
func (g *Graph) SeedMysteries(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		g.trackMystery(id)
	}
}

// Introduce brings a plot point into the narrative at the given chapter.
// A planned point becomes active and enters the unresolved ledger.
// Re-introducing at a different chapter overwrites the recorded chapter;
// callers should not re-introduce casually.
func (g *Graph) Introduce(id string, chapter int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.points[id]
	if !ok {
		return &NotFoundError{Kind: "plot point", ID: id}
	}

	p.ChapterIntroduced = chapter
	if p.Status == StatusPlanned {
		p.Status = StatusActive
		g.trackMystery(id)
	}

	g.logger.Info("plot point introduced",
		"plot_id", id,
		"chapter", chapter,
		"status", p.Status)
	return nil
}

// Resolve marks a plot point resolved at the given chapter, appends the
// resolution note, reveals the mystery if one was tracked, and activates
// direct dependents that were still planned. The cascade is single-level:
// transitively dependent points activate only once their own direct
// dependency resolves, so callers must resolve in dependency order to
// unlock deep chains.
func (g *Graph) Resolve(id, resolution string, chapter int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.points[id]
	if !ok {
		return &NotFoundError{Kind: "plot point", ID: id}
	}

	p.Status = StatusResolved
	p.ChapterResolved = chapter
	p.Notes += fmt.Sprintf("\nResolved in chapter %d: %s", chapter, resolution)

	g.revealMystery(id)

	activated := 0
	for _, oid := range g.order {
		other := g.points[oid]
		if other.ID == id || other.Status != StatusPlanned {
			continue
		}
		for _, dep := range other.Dependencies {
			if dep == id {
				other.Status = StatusActive
				g.trackMystery(other.ID)
				activated++
				break
			}
		}
	}

	g.logger.Info("plot point resolved",
		"plot_id", id,
		"chapter", chapter,
		"dependents_activated", activated)
	return nil
}

// ActivePlots returns all active plot points in insertion order.
func (g *Graph) ActivePlots() []PlotPoint {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var active []PlotPoint
	for _, id := range g.order {
		if p := g.points[id]; p.Status == StatusActive {
			active = append(active, *p)
		}
	}
	return active
}

// ChapterPlots partitions plot points relative to one chapter.
type ChapterPlots struct {
	Introduced []PlotPoint // chapter_introduced == chapter
	Resolved   []PlotPoint // chapter_resolved == chapter
	Active     []PlotPoint // active and in flight during the chapter
}

// PlotsForChapter reports which points are introduced, resolved or active
// during the given chapter.
func (g *Graph) PlotsForChapter(chapter int) ChapterPlots {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var cp ChapterPlots
	for _, id := range g.order {
		p := g.points[id]
		if p.ChapterIntroduced == chapter {
			cp.Introduced = append(cp.Introduced, *p)
		}
		if p.ChapterResolved == chapter {
			cp.Resolved = append(cp.Resolved, *p)
		}
		if p.Status == StatusActive &&
			p.ChapterIntroduced > 0 && p.ChapterIntroduced <= chapter &&
			(p.ChapterResolved == 0 || p.ChapterResolved > chapter) {
			cp.Active = append(cp.Active, *p)
		}
	}
	return cp
}

// DependenciesSatisfied reports whether every dependency of the point is
// resolved. A dependency id absent from the graph counts as satisfied.
func (g *Graph) DependenciesSatisfied(id string) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.points[id]
	if !ok {
		return false, &NotFoundError{Kind: "plot point", ID: id}
	}
	return g.dependenciesSatisfiedLocked(p), nil
}

func (g *Graph) dependenciesSatisfiedLocked(p *PlotPoint) bool {
	for _, dep := range p.Dependencies {
		if dp, ok := g.points[dep]; ok && dp.Status != StatusResolved {
			return false
		}
	}
	return true
}

// BuildingSuggestion pairs a planned point with its unmet dependency ids.
type BuildingSuggestion struct {
	Plot  PlotPoint
	Needs []string
}

// Suggestions buckets the next plausible plot developments.
type Suggestions struct {
	// Immediate flags overload: when more than three critical points are
	// active at once, the first two are surfaced as needing resolution.
	Immediate []PlotPoint
	// Ready holds planned points whose dependencies are all satisfied.
	Ready []PlotPoint
	// Building holds planned points still waiting on unrevealed dependencies.
	Building []BuildingSuggestion
}

// SuggestNextDevelopment examines the graph and proposes what to resolve,
// introduce, or set up next.
func (g *Graph) SuggestNextDevelopment() Suggestions {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var s Suggestions

	var activeCritical []PlotPoint
	for _, id := range g.order {
		p := g.points[id]
		if p.Status == StatusActive && p.Importance == ImportanceCritical {
			activeCritical = append(activeCritical, *p)
		}
	}
	if len(activeCritical) > 3 {
		s.Immediate = activeCritical[:2]
	}

	for _, id := range g.order {
		p := g.points[id]
		if p.Status == StatusPlanned && g.dependenciesSatisfiedLocked(p) {
			s.Ready = append(s.Ready, *p)
		}
	}

	for _, id := range g.order {
		p := g.points[id]
		if p.Status != StatusPlanned || len(p.Dependencies) == 0 {
			continue
		}
		var needs []string
		for _, dep := range p.Dependencies {
			if _, ok := g.revealed[dep]; !ok {
				needs = append(needs, dep)
			}
		}
		if len(needs) > 0 {
			s.Building = append(s.Building, BuildingSuggestion{Plot: *p, Needs: needs})
		}
	}

	return s
}

// AddForeshadowing records a hint planted for the plot point in a chapter.
func (g *Graph) AddForeshadowing(id, hint string, chapter int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.points[id]
	if !ok {
		return &NotFoundError{Kind: "plot point", ID: id}
	}
	p.Foreshadowing = append(p.Foreshadowing, fmt.Sprintf("Chapter %d: %s", chapter, hint))
	return nil
}

// SynchronizeTimelines records that a frame-narrative event and an
// inner-narrative event line up at the given chapter.
func (g *Graph) SynchronizeTimelines(chapter int, frameEvent, innerEvent string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timeline = append(g.timeline, SyncPoint{
		Chapter:    chapter,
		FrameEvent: frameEvent,
		InnerEvent: innerEvent,
		RecordedAt: time.Now(),
	})
}

// SyncPoints returns the recorded timeline correspondences in order.
func (g *Graph) SyncPoints() []SyncPoint {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]SyncPoint, len(g.timeline))
	copy(out, g.timeline)
	return out
}

// Point returns a copy of the plot point, if present.
func (g *Graph) Point(id string) (PlotPoint, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.points[id]
	if !ok {
		return PlotPoint{}, false
	}
	return *p, true
}

// Points returns copies of all plot points in insertion order.
func (g *Graph) Points() []PlotPoint {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]PlotPoint, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.points[id])
	}
	return out
}

// Arcs returns copies of all story arcs in insertion order.
func (g *Graph) Arcs() []StoryArc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]StoryArc, 0, len(g.arcOrder))
	for _, id := range g.arcOrder {
		out = append(out, *g.arcs[id])
	}
	return out
}

// UnresolvedMysteries returns the unresolved mystery ids, sorted.
func (g *Graph) UnresolvedMysteries() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.unresolved)
}

// RevealedSecrets returns the revealed mystery ids, sorted.
func (g *Graph) RevealedSecrets() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.revealed)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
