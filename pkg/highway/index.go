// Package highway models the stations along a one-dimensional highway and
// the vehicles parked at each of them.
package highway

import (
	"errors"

	"highway_router/pkg/ordered"
)

var (
	// ErrDuplicateStation is returned when a station already exists at a distance.
	ErrDuplicateStation = errors.New("station already exists")
	// ErrStationNotFound is returned when no station exists at a distance.
	ErrStationNotFound = errors.New("station not found")
	// ErrCarNotFound is returned when a station has no vehicle with the given range.
	ErrCarNotFound = errors.New("car not found")
)

// Index holds every station ordered by distance.
//
// Index is not safe for concurrent use; callers serialize access.
type Index struct {
	tree ordered.Tree[int64, *Station]
	last *Station // most recent successful lookup
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Insert adds s to the index. It fails with ErrDuplicateStation when a
// station already sits at s's distance.
func (ix *Index) Insert(s *Station) error {
	n, inserted := ix.tree.Insert(s.distance, s)
	if !inserted {
		return ErrDuplicateStation
	}
	s.node = n
	return nil
}

// Lookup returns the station at distance.
func (ix *Index) Lookup(distance int64) (*Station, bool) {
	if ix.last != nil && ix.last.distance == distance {
		return ix.last, true
	}
	n := ix.tree.Get(distance)
	if n == nil {
		return nil, false
	}
	ix.last = n.Value
	return n.Value, true
}

// Successor returns the next station in increasing distance, or nil.
func (ix *Index) Successor(s *Station) *Station {
	if s.node == nil {
		return nil
	}
	if n := s.node.Next(); n != nil {
		return n.Value
	}
	return nil
}

// Predecessor returns the next station in decreasing distance, or nil.
func (ix *Index) Predecessor(s *Station) *Station {
	if s.node == nil {
		return nil
	}
	if n := s.node.Prev(); n != nil {
		return n.Value
	}
	return nil
}

// Delete demolishes the station at distance together with its vehicles.
// It reports whether a station was found.
func (ix *Index) Delete(distance int64) bool {
	s, ok := ix.Lookup(distance)
	if !ok {
		return false
	}
	if ix.last == s {
		ix.last = nil
	}
	ix.tree.DeleteNode(s.node)
	s.node = nil
	s.cars.clear()
	return true
}

// AddCar parks a vehicle with range r at the station at distance.
func (ix *Index) AddCar(distance, r int64) error {
	s, ok := ix.Lookup(distance)
	if !ok {
		return ErrStationNotFound
	}
	s.cars.Insert(r)
	return nil
}

// ScrapCar removes one vehicle with range r from the station at distance.
func (ix *Index) ScrapCar(distance, r int64) error {
	s, ok := ix.Lookup(distance)
	if !ok {
		return ErrStationNotFound
	}
	if !s.cars.Delete(r) {
		return ErrCarNotFound
	}
	return nil
}

// Len returns the number of stations.
func (ix *Index) Len() int { return ix.tree.Len() }

// First returns the station with the smallest distance, or nil.
func (ix *Index) First() *Station {
	if n := ix.tree.Min(); n != nil {
		return n.Value
	}
	return nil
}

// Last returns the station with the largest distance, or nil.
func (ix *Index) Last() *Station {
	if n := ix.tree.Max(); n != nil {
		return n.Value
	}
	return nil
}

// Ascend calls fn for stations in increasing distance starting at the first
// station at or after from, until fn returns false.
func (ix *Index) Ascend(from int64, fn func(s *Station) bool) {
	for n := ix.tree.Ceil(from); n != nil; n = n.Next() {
		if !fn(n.Value) {
			return
		}
	}
}

// Close drops every station. The index stays usable and empty.
func (ix *Index) Close() {
	ix.tree.Ascend(func(n *ordered.Node[int64, *Station]) bool {
		n.Value.node = nil
		return true
	})
	ix.tree.Clear()
	ix.last = nil
}
