// Package planner finds minimum-hop journeys between highway stations.
//
// A hop leaves a station on one of its vehicles and stops at another
// station no farther away than that vehicle's range. Journeys never turn
// back: a trip from a lower to a higher distance only moves right, and
// vice versa.
package planner

import (
	"errors"

	"highway_router/pkg/highway"
)

var (
	// ErrNoPath is returned when the goal cannot be reached from the start.
	ErrNoPath = errors.New("no path")
	// ErrUnknownStation is returned when the start or goal station does not exist.
	ErrUnknownStation = errors.New("unknown station")
)

// Result is the outcome of a successful path query.
type Result struct {
	Path  []int64 // station distances from start to goal, inclusive
	Stats Stats
}

// Hops returns the number of hops in the path.
func (r *Result) Hops() int { return len(r.Path) - 1 }

// Pathfinder is the interface for path queries.
type Pathfinder interface {
	Plan(start, goal int64) (*Result, error)
}

// Planner implements Pathfinder over a station index.
type Planner struct {
	index *highway.Index
}

// New creates a planner reading stations from index.
func New(index *highway.Index) *Planner {
	return &Planner{index: index}
}

// Plan computes a minimum-hop path from the station at start to the
// station at goal. When several paths tie, the one through stations
// closest to the highway origin is chosen.
func (p *Planner) Plan(start, goal int64) (*Result, error) {
	if start == goal {
		return &Result{Path: []int64{start}}, nil
	}

	from, ok := p.index.Lookup(start)
	if !ok {
		return nil, ErrUnknownStation
	}
	to, ok := p.index.Lookup(goal)
	if !ok {
		return nil, ErrUnknownStation
	}

	qs := NewQueryState()
	defer qs.Reset()

	var path []int64
	var err error
	if start < goal {
		path, err = p.planForward(qs, from, to)
	} else {
		path, err = p.planBackward(qs, from, to)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Path: path, Stats: qs.Stats}, nil
}

// advance moves the shared BFS cursor to the next station by distance.
func (p *Planner) advance(qs *QueryState, s *highway.Station) *highway.Station {
	n := p.index.Successor(s)
	if n != nil {
		qs.Stats.CursorAdvances++
	}
	return n
}
