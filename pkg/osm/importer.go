package osm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sort"

	"github.com/paulmach/osm"

	"highway_router/pkg/geo"
	"highway_router/pkg/protocol"
)

// ErrNoHighway is returned when the selector matches no usable road.
var ErrNoHighway = errors.New("no matching highway")

// Options configures an import.
type Options struct {
	Format  Format
	Select  Selector
	MaxSnap float64 // meters; zero means DefaultMaxSnapMeters
	Ranges  []int64 // vehicles stocked at every imported station
}

// Station is one point of interest placed on the highway.
type Station struct {
	NodeID   osm.NodeID
	Name     string
	Amenity  string
	Distance int64   // whole meters from the start of the highway
	Offset   float64 // meters between the node and the highway
}

// Result holds the stations found along the highway.
type Result struct {
	Stations     []Station // ascending by Distance, unique distances
	Ranges       []int64
	LengthMeters float64
	WaysSelected int
	WaysUsed     int
	TooFar       int // candidates beyond the snap distance
	Merged       int // candidates that landed on an occupied meter
}

// Import reads an OSM extract and places every fuel and charging station
// near the selected highway by its distance along the road.
func Import(ctx context.Context, rs io.ReadSeeker, opts Options) (*Result, error) {
	maxSnap := opts.MaxSnap
	if maxSnap <= 0 {
		maxSnap = DefaultMaxSnapMeters
	}

	ex, err := read(ctx, rs, opts.Format, opts.Select)
	if err != nil {
		return nil, err
	}
	if len(ex.ways) == 0 {
		return nil, ErrNoHighway
	}

	ids, used := chain(ex.ways)
	if used < len(ex.ways) {
		log.Printf("Warning: chained %d of %d ways; the rest are disconnected or parallel carriageways", used, len(ex.ways))
	}

	points := make([]geo.Point, 0, len(ids))
	var missing int
	for _, id := range ids {
		n, ok := ex.coords[id]
		if !ok {
			missing++
			continue
		}
		points = append(points, geo.Point{Lat: n.Lat, Lon: n.Lon})
	}
	if missing > 0 {
		log.Printf("Warning: skipped %d highway nodes due to missing coordinates", missing)
	}

	line := geo.NewPolyline(points)
	if line.Segments() == 0 {
		return nil, fmt.Errorf("%w: fewer than two located nodes", ErrNoHighway)
	}
	log.Printf("Highway polyline: %d points, %.0f m", len(points), line.Length())

	res := &Result{
		Ranges:       opts.Ranges,
		LengthMeters: line.Length(),
		WaysSelected: len(ex.ways),
		WaysUsed:     used,
	}

	sn := newSnapper(line, maxSnap)
	var found []Station
	for _, n := range ex.pois {
		along, offset, ok := sn.locate(geo.Point{Lat: n.Lat, Lon: n.Lon})
		if !ok {
			res.TooFar++
			continue
		}
		name := n.Tags.Find("name")
		if name == "" {
			name = n.Tags.Find("brand")
		}
		found = append(found, Station{
			NodeID:   n.ID,
			Name:     name,
			Amenity:  n.Tags.Find("amenity"),
			Distance: int64(math.Round(along)),
			Offset:   offset,
		})
	}

	// Closest to the road wins a shared meter.
	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.NodeID < b.NodeID
	})
	for _, s := range found {
		if k := len(res.Stations); k > 0 && res.Stations[k-1].Distance == s.Distance {
			res.Merged++
			continue
		}
		res.Stations = append(res.Stations, s)
	}

	log.Printf("Placed %d stations (%d too far, %d merged)", len(res.Stations), res.TooFar, res.Merged)
	return res, nil
}

// WriteCommands writes one add-station request per station.
func (r *Result) WriteCommands(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range r.Stations {
		cmd := protocol.Command{Kind: protocol.AddStation, Distance: s.Distance, Ranges: r.Ranges}
		if _, err := fmt.Fprintln(bw, cmd.String()); err != nil {
			return fmt.Errorf("write station %d: %w", s.Distance, err)
		}
	}
	return bw.Flush()
}
