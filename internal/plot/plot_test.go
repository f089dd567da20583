package plot

import (
	"errors"
	"strings"
	"testing"
)

func point(id string, status Status, deps ...string) PlotPoint {
	return PlotPoint{
		ID:           id,
		Title:        "Title of " + id,
		Description:  "Description of " + id,
		Importance:   ImportanceMajor,
		Status:       status,
		Dependencies: deps,
	}
}

func TestResolveCascadeActivatesDirectDependents(t *testing.T) {
	g := New()
	g.Add(point("a", StatusActive))
	g.Add(point("b", StatusPlanned, "a"))
	g.Add(point("c", StatusPlanned, "b")) // transitive, must not activate

	if err := g.Resolve("a", "done", 5); err != nil {
		t.Fatal(err)
	}

	b, _ := g.Point("b")
	if b.Status != StatusActive {
		t.Errorf("direct dependent b status = %s, want active", b.Status)
	}
	c, _ := g.Point("c")
	if c.Status != StatusPlanned {
		t.Errorf("transitive dependent c status = %s, want planned", c.Status)
	}

	// Resolving b unlocks c.
	if err := g.Resolve("b", "done", 6); err != nil {
		t.Fatal(err)
	}
	c, _ = g.Point("c")
	if c.Status != StatusActive {
		t.Errorf("after resolving b, c status = %s, want active", c.Status)
	}
}

func TestResolveIsIdempotentButNotesAccumulate(t *testing.T) {
	g := New()
	g.Add(point("a", StatusActive))

	if err := g.Resolve("a", "first", 3); err != nil {
		t.Fatal(err)
	}
	if err := g.Resolve("a", "second", 7); err != nil {
		t.Fatal(err)
	}

	a, _ := g.Point("a")
	if a.Status != StatusResolved {
		t.Errorf("status = %s, want resolved", a.Status)
	}
	if a.ChapterResolved != 7 {
		t.Errorf("chapter resolved = %d, want 7 (last write wins)", a.ChapterResolved)
	}
	if !strings.Contains(a.Notes, "Resolved in chapter 3: first") ||
		!strings.Contains(a.Notes, "Resolved in chapter 7: second") {
		t.Errorf("notes should accumulate both resolutions, got %q", a.Notes)
	}
}

func TestResolveUnknownIDIsAtomicNoOp(t *testing.T) {
	g := New()
	g.Add(point("a", StatusPlanned, "ghost"))

	err := g.Resolve("ghost", "x", 1)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}

	// Nothing changed: a stays planned and no mystery was revealed.
	a, _ := g.Point("a")
	if a.Status != StatusPlanned {
		t.Errorf("a status = %s, want planned after failed resolve", a.Status)
	}
	if len(g.RevealedSecrets()) != 0 {
		t.Error("failed resolve must not reveal anything")
	}
}

func TestIntroduceActivatesAndTracksMystery(t *testing.T) {
	g := New()
	g.Add(point("secret", StatusPlanned))

	if err := g.Introduce("secret", 4); err != nil {
		t.Fatal(err)
	}

	p, _ := g.Point("secret")
	if p.Status != StatusActive {
		t.Errorf("status = %s, want active", p.Status)
	}
	if p.ChapterIntroduced != 4 {
		t.Errorf("chapter introduced = %d, want 4", p.ChapterIntroduced)
	}
	if got := g.UnresolvedMysteries(); len(got) != 1 || got[0] != "secret" {
		t.Errorf("unresolved mysteries = %v, want [secret]", got)
	}

	// Re-introduction overwrites the chapter but stays active.
	if err := g.Introduce("secret", 9); err != nil {
		t.Fatal(err)
	}
	p, _ = g.Point("secret")
	if p.ChapterIntroduced != 9 || p.Status != StatusActive {
		t.Errorf("after re-introduce: chapter=%d status=%s", p.ChapterIntroduced, p.Status)
	}
}

func TestMysteryLedgerExactlyOneSet(t *testing.T) {
	g := New()
	g.Add(point("m", StatusActive))

	if err := g.Resolve("m", "revealed", 2); err != nil {
		t.Fatal(err)
	}

	if len(g.UnresolvedMysteries()) != 0 {
		t.Error("resolved mystery must leave the unresolved set")
	}
	if got := g.RevealedSecrets(); len(got) != 1 || got[0] != "m" {
		t.Errorf("revealed = %v, want [m]", got)
	}

	// Re-adding the same id as active must not resurrect it as unresolved.
	g.Add(point("m", StatusActive))
	if len(g.UnresolvedMysteries()) != 0 {
		t.Error("revealed id must never re-enter the unresolved set")
	}
}

func TestDependenciesSatisfied(t *testing.T) {
	g := New()
	g.Add(point("a", StatusActive))
	g.Add(point("b", StatusPlanned, "a"))
	g.Add(point("c", StatusPlanned, "missing_dep"))

	ok, err := g.DependenciesSatisfied("b")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("b depends on unresolved a, want false")
	}

	if err := g.Resolve("a", "done", 1); err != nil {
		t.Fatal(err)
	}
	ok, _ = g.DependenciesSatisfied("b")
	if !ok {
		t.Error("b's only dependency resolved, want true")
	}

	// A dependency id not present in the graph counts as satisfied.
	ok, err = g.DependenciesSatisfied("c")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("missing dependency id should count as satisfied")
	}

	if _, err := g.DependenciesSatisfied("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown point should yield ErrNotFound, got %v", err)
	}
}

func TestAddArcRejectsDanglingReference(t *testing.T) {
	g := New()
	g.Add(point("a", StatusPlanned))

	err := g.AddArc(StoryArc{ID: "arc", Name: "Arc", PlotPoints: []string{"a", "ghost"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for dangling reference, got %v", err)
	}
	if len(g.Arcs()) != 0 {
		t.Error("failed AddArc must not register the arc")
	}
}

func TestPlotsForChapter(t *testing.T) {
	g := New()
	g.Add(point("early", StatusPlanned))
	g.Add(point("mid", StatusPlanned))
	g.Add(point("late", StatusPlanned))

	if err := g.Introduce("early", 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Introduce("mid", 3); err != nil {
		t.Fatal(err)
	}
	if err := g.Resolve("early", "done", 3); err != nil {
		t.Fatal(err)
	}

	cp := g.PlotsForChapter(3)

	if len(cp.Introduced) != 1 || cp.Introduced[0].ID != "mid" {
		t.Errorf("introduced = %v, want [mid]", ids(cp.Introduced))
	}
	if len(cp.Resolved) != 1 || cp.Resolved[0].ID != "early" {
		t.Errorf("resolved = %v, want [early]", ids(cp.Resolved))
	}
	// "late" was never introduced; "early" resolved in chapter 3 is no
	// longer in flight during it.
	if len(cp.Active) != 1 || cp.Active[0].ID != "mid" {
		t.Errorf("active = %v, want [mid]", ids(cp.Active))
	}
}

func TestSuggestNextDevelopment(t *testing.T) {
	g := New()
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		p := point(id, StatusActive)
		p.Importance = ImportanceCritical
		g.Add(p)
	}
	g.Add(point("ready", StatusPlanned))          // no deps, ready
	g.Add(point("blocked", StatusPlanned, "c1"))  // waits on c1
	g.Add(point("waiting", StatusPlanned, "c99")) // dep unknown: ready, but also "building" until revealed

	s := g.SuggestNextDevelopment()

	if len(s.Immediate) != 2 {
		t.Fatalf("4 active critical points should surface 2 immediate, got %d", len(s.Immediate))
	}
	if s.Immediate[0].ID != "c1" || s.Immediate[1].ID != "c2" {
		t.Errorf("immediate = %v, want first two in insertion order", ids(s.Immediate))
	}

	readyIDs := ids(s.Ready)
	if len(readyIDs) != 2 || readyIDs[0] != "ready" || readyIDs[1] != "waiting" {
		t.Errorf("ready = %v, want [ready waiting]", readyIDs)
	}

	if len(s.Building) != 2 {
		t.Fatalf("building = %d entries, want 2", len(s.Building))
	}
	if s.Building[0].Plot.ID != "blocked" || s.Building[0].Needs[0] != "c1" {
		t.Errorf("building[0] = %s needs %v", s.Building[0].Plot.ID, s.Building[0].Needs)
	}
}

func TestSeedMysteriesAndForeshadowing(t *testing.T) {
	g := New()
	g.SeedMysteries("box", "prophecy")

	got := g.UnresolvedMysteries()
	if len(got) != 2 || got[0] != "box" || got[1] != "prophecy" {
		t.Errorf("seeded mysteries = %v (want sorted [box prophecy])", got)
	}

	g.Add(point("box", StatusActive))
	if err := g.AddForeshadowing("box", "the lock hums at night", 2); err != nil {
		t.Fatal(err)
	}
	p, _ := g.Point("box")
	if len(p.Foreshadowing) != 1 || !strings.Contains(p.Foreshadowing[0], "Chapter 2:") {
		t.Errorf("foreshadowing = %v", p.Foreshadowing)
	}

	if err := g.AddForeshadowing("nope", "x", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreshadowing unknown point: want ErrNotFound, got %v", err)
	}
}

func TestSynchronizeTimelines(t *testing.T) {
	g := New()
	g.SynchronizeTimelines(1, "the inn falls silent", "the hero begins to speak")
	g.SynchronizeTimelines(2, "soldiers on the road", "the troupe's last day")

	pts := g.SyncPoints()
	if len(pts) != 2 {
		t.Fatalf("sync points = %d, want 2", len(pts))
	}
	if pts[0].Chapter != 1 || pts[1].InnerEvent != "the troupe's last day" {
		t.Errorf("sync points recorded out of order: %+v", pts)
	}
}

func TestDefaultGraphSeed(t *testing.T) {
	g := DefaultGraph()

	if len(g.Points()) == 0 {
		t.Fatal("default graph has no plot points")
	}
	if len(g.Arcs()) == 0 {
		t.Fatal("default graph has no arcs")
	}
	if len(g.UnresolvedMysteries()) == 0 {
		t.Fatal("default graph has no seeded mysteries")
	}

	// The confrontation is gated on revelations tracked as mysteries, not
	// as plot points, so its dependencies count as satisfied.
	p, ok := g.Point("shadow_confrontation")
	if !ok {
		t.Fatal("shadow_confrontation missing from seed")
	}
	if len(p.Dependencies) != 2 {
		t.Errorf("shadow_confrontation dependencies = %v, want 2", p.Dependencies)
	}
	satisfied, err := g.DependenciesSatisfied("shadow_confrontation")
	if err != nil {
		t.Fatal(err)
	}
	if !satisfied {
		t.Error("dependencies absent from the graph should count as satisfied")
	}
}

func ids(points []PlotPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.ID
	}
	return out
}
