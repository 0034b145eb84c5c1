// Package geo holds the small amount of spherical geometry needed to place
// points of interest along a road.
package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// degToMeters converts degree-scaled equirectangular distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat, Lon float64
}

// Haversine returns the great-circle distance in meters between a and b.
func Haversine(a, b Point) float64 {
	lat1r := a.Lat * math.Pi / 180
	lat2r := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Project drops p onto segment ab. It returns the distance in meters from p
// to the closest point of ab and that point's position as a ratio along ab,
// clamped to [0, 1]. An equirectangular projection is used, which is exact
// enough for snap distances of a few kilometres.
func Project(p, a, b Point) (dist, ratio float64) {
	cosLat := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)

	ax, ay := a.Lon*cosLat, a.Lat
	px, py := p.Lon*cosLat, p.Lat

	// Compare in degrees: cosLat noise can split identical points.
	if a == b {
		return math.Hypot(px-ax, py-ay) * degToMeters, 0
	}

	dx, dy := b.Lon*cosLat-ax, b.Lat-ay
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy)) * degToMeters, t
}

// Bounds returns the lon/lat box enclosing pts, grown by margin meters on
// every side. The result is laid out as rtree rectangles expect: [lon, lat].
func Bounds(margin float64, pts ...Point) (lo, hi [2]float64) {
	lo = [2]float64{math.Inf(1), math.Inf(1)}
	hi = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		lo[0], hi[0] = math.Min(lo[0], p.Lon), math.Max(hi[0], p.Lon)
		lo[1], hi[1] = math.Min(lo[1], p.Lat), math.Max(hi[1], p.Lat)
	}
	if margin <= 0 || len(pts) == 0 {
		return lo, hi
	}

	dLat := margin / degToMeters
	// Widen longitude for the latitude furthest from the equator.
	cosLat := math.Cos(math.Max(math.Abs(lo[1]), math.Abs(hi[1])) * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-6 {
		dLon = math.Min(180, dLat/cosLat)
	}
	lo[0], hi[0] = lo[0]-dLon, hi[0]+dLon
	lo[1], hi[1] = lo[1]-dLat, hi[1]+dLat
	return lo, hi
}
