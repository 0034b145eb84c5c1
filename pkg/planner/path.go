package planner

import "highway_router/pkg/highway"

// pathTo follows predecessor links from end back to the search origin.
// With reverse set the result runs origin → end, otherwise end → origin.
func (qs *QueryState) pathTo(end *highway.Station, reverse bool) []int64 {
	path := make([]int64, 0, qs.visits[end].hops+1)
	for s := end; s != nil; s = qs.visits[s].prev {
		path = append(path, s.Distance())
	}
	if reverse {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}
	return path
}
