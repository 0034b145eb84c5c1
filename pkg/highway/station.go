package highway

import "highway_router/pkg/ordered"

// Station is a service point at a unique distance along the highway.
type Station struct {
	distance int64
	cars     *Cars
	node     *ordered.Node[int64, *Station] // nil while not indexed
}

// NewStation creates an unindexed station stocked with ranges.
func NewStation(distance int64, ranges ...int64) *Station {
	return &Station{distance: distance, cars: NewCars(ranges...)}
}

// Distance returns the station's position on the highway.
func (s *Station) Distance() int64 { return s.distance }

// Cars returns the station's vehicles.
func (s *Station) Cars() *Cars { return s.cars }

// MaxRange returns the longest range among the station's vehicles, or NoCar.
func (s *Station) MaxRange() int64 { return s.cars.Max() }

// Reaches reports whether a vehicle at s can cover the gap to other.
func (s *Station) Reaches(other *Station) bool {
	gap := other.distance - s.distance
	if gap < 0 {
		gap = -gap
	}
	return s.cars.Max() >= gap
}
