package planner

import "highway_router/pkg/highway"

// planForward runs a BFS from start toward higher distances.
//
// Stations within reach of a station form a contiguous run to its right,
// so a single cursor shared by the whole search suffices: it only moves
// forward, and everything it passes is either enqueued or already below
// the waterline. Each station is examined at most once.
func (p *Planner) planForward(qs *QueryState, start, goal *highway.Station) ([]int64, error) {
	defer qs.queue.DrainAll()

	qs.seed(start)
	waterline := start.Distance()
	next := p.advance(qs, start)

	for qs.queue.Len() > 0 {
		cur := qs.queue.Dequeue()
		if cur == goal {
			return qs.pathTo(goal, true), nil
		}

		reach := cur.MaxRange()
		for next != nil && next.Distance()-cur.Distance() <= reach {
			if next.Distance() > waterline {
				waterline = next.Distance()
				qs.enqueue(next, cur)
			}
			next = p.advance(qs, next)
		}
	}

	return nil, ErrNoPath
}
