package planner

import "highway_router/pkg/highway"

// sweepReachedBy records, for every station in [left, right), the rightmost
// station in (s, right] whose vehicles cover the gap back to s.
//
// Two cursors walk leftward from right. The source cursor only moves when
// it cannot reach the current target; since targets only get farther from
// it, a discarded source can never reach a later target either.
func (p *Planner) sweepReachedBy(qs *QueryState, right, left *highway.Station) {
	source := right
	target := p.index.Predecessor(right)
	for target != nil && target.Distance() >= left.Distance() {
		qs.Stats.SweepSteps++
		if source.MaxRange() >= source.Distance()-target.Distance() {
			qs.reachedBy[target] = source.Distance()
			target = p.index.Predecessor(target)
		} else {
			source = p.index.Predecessor(source)
		}
		if source == target {
			// Nothing to the right reaches this target.
			target = p.index.Predecessor(target)
		}
	}
}

// planBackward finds a path from start leftward to goal.
//
// The search runs in reverse: a BFS from goal toward higher distances over
// the reversed edges, where next is admitted from cur when next's own
// vehicles cover the gap to cur. The sweep bounds how far right the cursor
// may move for each cur.
func (p *Planner) planBackward(qs *QueryState, start, goal *highway.Station) ([]int64, error) {
	defer qs.queue.DrainAll()

	p.sweepReachedBy(qs, start, goal)

	qs.seed(goal)
	waterline := goal.Distance()
	next := p.advance(qs, goal)

	for qs.queue.Len() > 0 {
		cur := qs.queue.Dequeue()
		if cur == start {
			return qs.pathTo(start, false), nil
		}

		limit := qs.reachedByOf(cur)
		for next != nil && next.Distance() <= limit {
			if next.Distance()-cur.Distance() <= next.MaxRange() && next.Distance() > waterline {
				waterline = next.Distance()
				qs.enqueue(next, cur)
			}
			next = p.advance(qs, next)
		}
	}

	return nil, ErrNoPath
}
