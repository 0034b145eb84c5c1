package osm

import (
	"math"

	"github.com/tidwall/rtree"

	"highway_router/pkg/geo"
)

// DefaultMaxSnapMeters is how far a station may sit from the highway and
// still be served by it.
const DefaultMaxSnapMeters = 500.0

// snapper places points on a polyline using an R-tree over its segments.
// Each segment is indexed by its bounding box grown by the snap distance, so
// a point query returns every segment that could be close enough.
type snapper struct {
	line    *geo.Polyline
	tree    rtree.RTreeG[int]
	maxDist float64
}

func newSnapper(line *geo.Polyline, maxDist float64) *snapper {
	s := &snapper{line: line, maxDist: maxDist}
	for i := 0; i < line.Segments(); i++ {
		a, b := line.Segment(i)
		lo, hi := geo.Bounds(maxDist, a, b)
		s.tree.Insert(lo, hi, i)
	}
	return s
}

// locate returns how far along the line p projects and how far p is from
// the line, or ok == false when no segment is within the snap distance.
func (s *snapper) locate(p geo.Point) (along, offset float64, ok bool) {
	lo, hi := geo.Bounds(0, p)

	bestDist := math.Inf(1)
	bestSeg := -1
	var bestRatio float64

	s.tree.Search(lo, hi, func(_, _ [2]float64, seg int) bool {
		a, b := s.line.Segment(seg)
		d, ratio := geo.Project(p, a, b)
		if d < bestDist || (d == bestDist && seg < bestSeg) {
			bestDist, bestSeg, bestRatio = d, seg, ratio
		}
		return true
	})

	if bestSeg < 0 || bestDist > s.maxDist {
		return 0, 0, false
	}
	return s.line.Along(bestSeg, bestRatio), bestDist, true
}
