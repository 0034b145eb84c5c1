package planner

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	gonumpath "gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"highway_router/pkg/highway"
)

// fixture maps a station distance to the ranges of its vehicles.
type fixture map[int64][]int64

// buildIndex creates an index holding the fixture's stations.
func buildIndex(t *testing.T, f fixture) *highway.Index {
	t.Helper()
	ix := highway.NewIndex()
	for d, ranges := range f {
		if err := ix.Insert(highway.NewStation(d, ranges...)); err != nil {
			t.Fatalf("insert station %d: %v", d, err)
		}
	}
	return ix
}

func stations(ix *highway.Index) []*highway.Station {
	var all []*highway.Station
	for s := ix.First(); s != nil; s = ix.Successor(s) {
		all = append(all, s)
	}
	return all
}

// oracleHops computes the minimum hop count with a plain BFS over every
// one-hop edge that moves in the direction of travel.
func oracleHops(ix *highway.Index, start, goal int64) (int, bool) {
	all := stations(ix)
	g := simple.NewDirectedGraph()
	for _, s := range all {
		g.AddNode(simple.Node(s.Distance()))
	}
	rightward := start < goal
	for _, a := range all {
		for _, b := range all {
			if a == b || (a.Distance() < b.Distance()) != rightward {
				continue
			}
			if a.Reaches(b) {
				g.SetEdge(g.NewEdge(simple.Node(a.Distance()), simple.Node(b.Distance())))
			}
		}
	}
	nodes, _ := gonumpath.DijkstraFrom(simple.Node(start), g).To(goal)
	if len(nodes) == 0 {
		return 0, false
	}
	return len(nodes) - 1, true
}

// checkPath verifies endpoints, direction and that every hop is covered by
// the departing station's longest range.
func checkPath(t *testing.T, ix *highway.Index, path []int64, start, goal int64) {
	t.Helper()
	if len(path) == 0 || path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path %v does not run %d → %d", path, start, goal)
	}
	for i := 0; i+1 < len(path); i++ {
		from, ok := ix.Lookup(path[i])
		if !ok {
			t.Fatalf("path %v visits unknown station %d", path, path[i])
		}
		to, ok := ix.Lookup(path[i+1])
		if !ok {
			t.Fatalf("path %v visits unknown station %d", path, path[i+1])
		}
		if (path[i] < path[i+1]) != (start < goal) {
			t.Fatalf("path %v turns back at %d", path, path[i])
		}
		if !from.Reaches(to) {
			t.Fatalf("path %v: %d (max range %d) cannot reach %d", path, path[i], from.MaxRange(), path[i+1])
		}
	}
}

func TestPlanForwardExactPath(t *testing.T) {
	ix := buildIndex(t, fixture{
		0:  {10},
		5:  {3},
		10: {20},
		15: {1},
		25: {30},
		40: {20},
		55: {},
		60: {100},
	})
	res, err := New(ix).Plan(0, 60)
	if err != nil {
		t.Fatalf("Plan(0, 60): %v", err)
	}
	if want := []int64{0, 10, 25, 40, 60}; !slices.Equal(res.Path, want) {
		t.Errorf("path = %v, want %v", res.Path, want)
	}
	if res.Hops() != 4 {
		t.Errorf("Hops() = %d, want 4", res.Hops())
	}
}

func TestPlanBackwardExactPath(t *testing.T) {
	ix := buildIndex(t, fixture{
		0:  {10},
		5:  {3},
		10: {20},
		15: {1},
		25: {30},
		40: {20},
		55: {},
		60: {100},
	})
	p := New(ix)

	tests := []struct {
		start, goal int64
		want        []int64
	}{
		{40, 0, []int64{40, 25, 0}},
		{60, 0, []int64{60, 0}},
		{25, 5, []int64{25, 5}},
	}
	for _, tt := range tests {
		res, err := p.Plan(tt.start, tt.goal)
		if err != nil {
			t.Fatalf("Plan(%d, %d): %v", tt.start, tt.goal, err)
		}
		if !slices.Equal(res.Path, tt.want) {
			t.Errorf("Plan(%d, %d) = %v, want %v", tt.start, tt.goal, res.Path, tt.want)
		}
	}
}

func TestPlanTieBreakPrefersStationsNearOrigin(t *testing.T) {
	// 20 → 50 can go through 30 or 40 in two hops.
	ix := buildIndex(t, fixture{
		20: {25},
		30: {20},
		40: {10},
		50: {25},
	})
	p := New(ix)

	res, err := p.Plan(20, 50)
	if err != nil {
		t.Fatalf("Plan(20, 50): %v", err)
	}
	if want := []int64{20, 30, 50}; !slices.Equal(res.Path, want) {
		t.Errorf("forward path = %v, want %v", res.Path, want)
	}

	res, err = p.Plan(50, 20)
	if err != nil {
		t.Fatalf("Plan(50, 20): %v", err)
	}
	if want := []int64{50, 30, 20}; !slices.Equal(res.Path, want) {
		t.Errorf("backward path = %v, want %v", res.Path, want)
	}
}

func TestPlanSampleHighwayMatchesOracle(t *testing.T) {
	// Station 0 tops out at range 5, so nothing is reachable from it.
	ix := buildIndex(t, fixture{
		0:   {1, 2, 3, 4, 5},
		200: {100},
		300: {200},
		600: {200},
		900: {200},
	})
	_, err := New(ix).Plan(0, 900)
	if _, ok := oracleHops(ix, 0, 900); ok {
		t.Fatal("oracle found a path the fixture should not allow")
	}
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("Plan(0, 900) err = %v, want ErrNoPath", err)
	}

	ix.AddCar(0, 300)
	ix.AddCar(300, 300)
	ix.AddCar(600, 300)
	res, err := New(ix).Plan(0, 900)
	if err != nil {
		t.Fatalf("Plan(0, 900) after upgrade: %v", err)
	}
	hops, ok := oracleHops(ix, 0, 900)
	if !ok || res.Hops() != hops {
		t.Errorf("Hops() = %d, oracle = %d (found %v)", res.Hops(), hops, ok)
	}
	if want := []int64{0, 300, 600, 900}; !slices.Equal(res.Path, want) {
		t.Errorf("path = %v, want %v", res.Path, want)
	}
}

func TestPlanNoPath(t *testing.T) {
	ix := buildIndex(t, fixture{
		10: {5},
		20: {5},
		30: {100},
	})
	p := New(ix)
	for _, tt := range []struct{ start, goal int64 }{{10, 30}, {20, 10}} {
		if _, err := p.Plan(tt.start, tt.goal); !errors.Is(err, ErrNoPath) {
			t.Errorf("Plan(%d, %d) err = %v, want ErrNoPath", tt.start, tt.goal, err)
		}
	}
}

func TestPlanDegenerate(t *testing.T) {
	p := New(highway.NewIndex())
	res, err := p.Plan(42, 42)
	if err != nil {
		t.Fatalf("Plan(42, 42): %v", err)
	}
	if !slices.Equal(res.Path, []int64{42}) || res.Stats != (Stats{}) {
		t.Errorf("Plan(42, 42) = %v %+v, want [42] with no search", res.Path, res.Stats)
	}
}

func TestPlanUnknownStation(t *testing.T) {
	ix := buildIndex(t, fixture{10: {100}})
	p := New(ix)
	if _, err := p.Plan(10, 20); !errors.Is(err, ErrUnknownStation) {
		t.Errorf("Plan(10, 20) err = %v, want ErrUnknownStation", err)
	}
	if _, err := p.Plan(5, 10); !errors.Is(err, ErrUnknownStation) {
		t.Errorf("Plan(5, 10) err = %v, want ErrUnknownStation", err)
	}
}

func TestPlanRepeatedQueriesAreIndependent(t *testing.T) {
	ix := buildIndex(t, fixture{
		0:  {15},
		10: {15},
		20: {15},
		30: {15},
	})
	p := New(ix)
	first, err := p.Plan(30, 0)
	if err != nil {
		t.Fatalf("Plan(30, 0): %v", err)
	}
	// A failing query in between must not leave state behind.
	if _, err := p.Plan(0, 99); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("Plan(0, 99) err = %v", err)
	}
	ix.ScrapCar(10, 15)
	if _, err := p.Plan(0, 30); !errors.Is(err, ErrNoPath) {
		t.Fatalf("Plan(0, 30) err = %v, want ErrNoPath", err)
	}
	ix.AddCar(10, 15)
	second, err := p.Plan(30, 0)
	if err != nil {
		t.Fatalf("second Plan(30, 0): %v", err)
	}
	if !slices.Equal(first.Path, second.Path) || first.Stats != second.Stats {
		t.Errorf("repeated query differs: %v %+v vs %v %+v", first.Path, first.Stats, second.Path, second.Stats)
	}
}

// TestSweepMatchesBruteForce enumerates every assignment of longest ranges
// to five stations and checks the two-cursor sweep against a direct scan.
func TestSweepMatchesBruteForce(t *testing.T) {
	distances := []int64{0, 1, 3, 6, 7}
	choices := []int64{highway.NoCar, 0, 1, 2, 3, 7}

	assign := make([]int, len(distances))
	for {
		f := fixture{}
		for i, d := range distances {
			if r := choices[assign[i]]; r != highway.NoCar {
				f[d] = []int64{r}
			} else {
				f[d] = nil
			}
		}
		ix := buildIndex(t, f)
		all := stations(ix)
		p := New(ix)

		for ri := range all {
			for li := 0; li < ri; li++ {
				right, left := all[ri], all[li]
				qs := NewQueryState()
				p.sweepReachedBy(qs, right, left)

				for si := li; si < ri; si++ {
					s := all[si]
					want, found := int64(0), false
					for xi := ri; xi > si; xi-- {
						if all[xi].Reaches(s) {
							want, found = all[xi].Distance(), true
							break
						}
					}
					got, ok := qs.reachedBy[s]
					if ok != found || got != want {
						t.Fatalf("ranges %v, sweep [%d,%d]: reachedBy(%d) = %d/%v, want %d/%v",
							f, left.Distance(), right.Distance(), s.Distance(), got, ok, want, found)
					}
				}
				if qs.Stats.SweepSteps > 2*len(all) {
					t.Fatalf("sweep [%d,%d] took %d steps for %d stations",
						left.Distance(), right.Distance(), qs.Stats.SweepSteps, len(all))
				}
			}
		}

		// Next assignment, odometer style.
		i := 0
		for ; i < len(assign); i++ {
			assign[i]++
			if assign[i] < len(choices) {
				break
			}
			assign[i] = 0
		}
		if i == len(assign) {
			return
		}
	}
}

// TestPlanMatchesOracleExhaustive checks every ordered station pair of every
// small fixture against the BFS oracle, in both directions.
func TestPlanMatchesOracleExhaustive(t *testing.T) {
	distances := []int64{0, 2, 3, 5, 9}
	choices := []int64{highway.NoCar, 1, 2, 3, 4, 9}

	assign := make([]int, len(distances))
	for {
		f := fixture{}
		for i, d := range distances {
			if r := choices[assign[i]]; r != highway.NoCar {
				f[d] = []int64{r}
			} else {
				f[d] = nil
			}
		}
		ix := buildIndex(t, f)
		p := New(ix)

		for _, start := range distances {
			for _, goal := range distances {
				if start == goal {
					continue
				}
				res, err := p.Plan(start, goal)
				hops, ok := oracleHops(ix, start, goal)
				if !ok {
					if !errors.Is(err, ErrNoPath) {
						t.Fatalf("ranges %v: Plan(%d, %d) = %v/%v, want ErrNoPath", f, start, goal, res, err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("ranges %v: Plan(%d, %d): %v, oracle found %d hops", f, start, goal, err, hops)
				}
				checkPath(t, ix, res.Path, start, goal)
				if res.Hops() != hops {
					t.Fatalf("ranges %v: Plan(%d, %d) = %v (%d hops), oracle %d hops",
						f, start, goal, res.Path, res.Hops(), hops)
				}
			}
		}

		i := 0
		for ; i < len(assign); i++ {
			assign[i]++
			if assign[i] < len(choices) {
				break
			}
			assign[i] = 0
		}
		if i == len(assign) {
			return
		}
	}
}

func TestPlanRandomAgainstOracleAndCursorBound(t *testing.T) {
	rng := rand.New(rand.NewSource(2023))
	for trial := 0; trial < 40; trial++ {
		f := fixture{}
		n := 20 + rng.Intn(40)
		for len(f) < n {
			d := int64(rng.Intn(1000))
			var ranges []int64
			for k := rng.Intn(4); k > 0; k-- {
				ranges = append(ranges, int64(rng.Intn(120)))
			}
			f[d] = ranges
		}
		ix := buildIndex(t, f)
		all := stations(ix)
		p := New(ix)

		for q := 0; q < 30; q++ {
			start := all[rng.Intn(len(all))].Distance()
			goal := all[rng.Intn(len(all))].Distance()
			if start == goal {
				continue
			}
			res, err := p.Plan(start, goal)
			hops, ok := oracleHops(ix, start, goal)
			switch {
			case !ok && !errors.Is(err, ErrNoPath):
				t.Fatalf("trial %d: Plan(%d, %d) err = %v, want ErrNoPath", trial, start, goal, err)
			case ok && err != nil:
				t.Fatalf("trial %d: Plan(%d, %d): %v, oracle %d hops", trial, start, goal, err, hops)
			case ok:
				checkPath(t, ix, res.Path, start, goal)
				if res.Hops() != hops {
					t.Fatalf("trial %d: Plan(%d, %d) hops = %d, oracle %d", trial, start, goal, res.Hops(), hops)
				}
				if res.Stats.CursorAdvances > len(all) {
					t.Fatalf("trial %d: cursor advanced %d times over %d stations", trial, res.Stats.CursorAdvances, len(all))
				}
				if res.Stats.Enqueued > len(all) {
					t.Fatalf("trial %d: enqueued %d stations out of %d", trial, res.Stats.Enqueued, len(all))
				}
			}
		}
	}
}
