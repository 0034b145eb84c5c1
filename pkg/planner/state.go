package planner

import "highway_router/pkg/highway"

// visit is the search bookkeeping for one station reached by a query.
type visit struct {
	hops int
	prev *highway.Station
}

// Stats counts the work done by one path query.
type Stats struct {
	CursorAdvances int // stations the shared BFS cursor moved onto
	Enqueued       int // stations pushed onto the frontier
	SweepSteps     int // iterations of the backward reachability sweep
}

// QueryState holds per-query scratch data. It is allocated for a single
// query and never shared, so nothing leaks between queries.
type QueryState struct {
	visits    map[*highway.Station]visit
	reachedBy map[*highway.Station]int64
	queue     *Queue[*highway.Station]
	Stats     Stats
}

// NewQueryState creates an empty QueryState.
func NewQueryState() *QueryState {
	return &QueryState{
		visits:    make(map[*highway.Station]visit),
		reachedBy: make(map[*highway.Station]int64),
		queue:     NewQueue[*highway.Station](64),
	}
}

// Reset clears the state for reuse.
func (qs *QueryState) Reset() {
	clear(qs.visits)
	clear(qs.reachedBy)
	qs.queue.DrainAll()
	qs.Stats = Stats{}
}

// seed marks s as the origin of the search and enqueues it.
func (qs *QueryState) seed(s *highway.Station) {
	qs.visits[s] = visit{}
	qs.queue.Enqueue(s)
}

// enqueue records next as reached from cur in one more hop.
func (qs *QueryState) enqueue(next, cur *highway.Station) {
	qs.visits[next] = visit{hops: qs.visits[cur].hops + 1, prev: cur}
	qs.queue.Enqueue(next)
	qs.Stats.Enqueued++
}

// reachedByOf returns the rightmost distance from which s is one hop away.
// Stations no one reaches report their own distance.
func (qs *QueryState) reachedByOf(s *highway.Station) int64 {
	if d, ok := qs.reachedBy[s]; ok {
		return d
	}
	return s.Distance()
}
