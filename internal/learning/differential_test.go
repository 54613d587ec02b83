package learning

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/talgya/predictive-agency/internal/agents"
	"github.com/talgya/predictive-agency/internal/world"
)

func TestCatalog(t *testing.T) {
	q := New(0.1, 0.01)
	catalog := q.PossibleActions()
	if len(catalog) != CatalogSize {
		t.Fatalf("catalog has %d entries, want %d", len(catalog), CatalogSize)
	}
	if want := (world.Action{TakeRate: 0.05, ServiceLevel: 0.3, Openness: 0.2}); catalog[0] != want {
		t.Errorf("first = %+v, want %+v", catalog[0], want)
	}
	if want := (world.Action{TakeRate: 0.05, ServiceLevel: 0.3, Openness: 0.5}); catalog[1] != want {
		t.Errorf("second = %+v, want %+v", catalog[1], want)
	}
	if want := (world.Action{TakeRate: 0.1, ServiceLevel: 0.7, Openness: 0.5}); catalog[19] != want {
		t.Errorf("last = %+v, want %+v", catalog[19], want)
	}
	if diff := cmp.Diff(catalog, New(0.5, 0.5).PossibleActions()); diff != "" {
		t.Errorf("catalog differs between learners:\n%s", diff)
	}
}

func TestUpdateFromEmptyTable(t *testing.T) {
	q := New(0.1, 0.01)
	a := agents.New(0, agents.TypePlatform, 0.05, 0.3)
	s := world.InitialState()
	action := q.PossibleActions()[0] // take rate equals the anchor: no discomfort

	delta := q.Update(a, s, action, 10, s)

	if delta != 10 {
		t.Errorf("delta = %v, want 10", delta)
	}
	if got := a.Value(s, action); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Q = %v, want 1.0", got)
	}
	if math.Abs(q.RBar-0.1) > 1e-12 {
		t.Errorf("RBar = %v, want 0.1", q.RBar)
	}
}

func TestUpdateUsesNextStateMaximum(t *testing.T) {
	q := New(0.5, 0.1)
	a := agents.New(0, agents.TypeDriver, 0.05, 0.3)
	s := world.InitialState()
	next := s
	next.Surplus = 60
	catalog := q.PossibleActions()

	a.SetValue(next, catalog[2], 4) // anchor take rate: stored as 4
	q.RBar = 1

	delta := q.Update(a, s, catalog[0], 2, next)
	// δ = 2 − 1 + 4 − 0
	if delta != 5 {
		t.Fatalf("delta = %v, want 5", delta)
	}
	if got := a.Value(s, catalog[0]); got != 2.5 {
		t.Errorf("Q = %v, want 2.5", got)
	}
	if got := q.RBar; math.Abs(got-1.5) > 1e-12 {
		t.Errorf("RBar = %v, want 1.5", got)
	}
}

func TestUpdateMaxIncludesUnseenZeros(t *testing.T) {
	q := New(1, 0.01)
	a := agents.New(0, agents.TypeDriver, 0.3, 0.3)
	s := world.InitialState()
	catalog := q.PossibleActions()

	// Every write far from the anchor is negative; unseen entries still read 0.
	a.SetValue(s, catalog[0], 0)
	if a.Value(s, catalog[0]) >= 0 {
		t.Fatal("expected negative stored value")
	}
	delta := q.Update(a, world.InitialState(), catalog[5], 0, s)
	if delta != 0 {
		t.Errorf("delta = %v, want 0 (max over catalog includes unseen zeros)", delta)
	}
}

func TestUpdateReappliesDiscomfort(t *testing.T) {
	q := New(0.1, 0.01)
	a := agents.New(0, agents.TypePlatform, 0.05, 0.3)
	s := world.InitialState()
	action := world.Action{TakeRate: 0.25, ServiceLevel: 0.3, Openness: 0.2}

	q.Update(a, s, action, 10, s)
	want := 1.0 - math.Abs(0.25-0.05)*agents.DiscomfortWeight
	if got := a.Value(s, action); math.Abs(got-want) > 1e-12 {
		t.Errorf("Q = %v, want %v", got, want)
	}
}

func TestBaselineClamp(t *testing.T) {
	q := New(0.1, 1)
	a := agents.New(0, agents.TypeInvestor, 0.05, 0.3)
	s := world.InitialState()
	action := q.PossibleActions()[0]

	q.Update(a, s, action, 5000, s)
	if q.RBar != MaxRBar {
		t.Errorf("RBar = %v, want %v", q.RBar, MaxRBar)
	}
	q.Update(a, s, action, -1e6, s)
	if q.RBar != MinRBar {
		t.Errorf("RBar = %v, want %v", q.RBar, MinRBar)
	}

	q.Reset()
	if q.RBar != 0 {
		t.Errorf("RBar after Reset = %v", q.RBar)
	}
}
