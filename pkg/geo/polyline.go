package geo

// Polyline is an ordered chain of points with precomputed running length.
type Polyline struct {
	points []Point
	cum    []float64 // cum[i] = meters from points[0] to points[i]
}

// NewPolyline builds a polyline over points. Consecutive duplicates are kept;
// they form zero-length segments.
func NewPolyline(points []Point) *Polyline {
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + Haversine(points[i-1], points[i])
	}
	return &Polyline{points: points, cum: cum}
}

// Segments returns the number of segments.
func (l *Polyline) Segments() int {
	if len(l.points) < 2 {
		return 0
	}
	return len(l.points) - 1
}

// Segment returns the endpoints of segment i.
func (l *Polyline) Segment(i int) (a, b Point) {
	return l.points[i], l.points[i+1]
}

// Length returns the total length in meters.
func (l *Polyline) Length() float64 {
	if len(l.cum) == 0 {
		return 0
	}
	return l.cum[len(l.cum)-1]
}

// Along returns the distance in meters from the start of the line to the
// point at ratio along segment i.
func (l *Polyline) Along(i int, ratio float64) float64 {
	return l.cum[i] + ratio*(l.cum[i+1]-l.cum[i])
}
