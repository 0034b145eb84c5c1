// Package osm extracts refuelling and charging stations along one highway
// from OpenStreetMap data and places them by distance from the start of
// the road.
package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

// Format is the encoding of an OSM extract.
type Format int

const (
	PBF Format = iota
	XML
)

// FormatFromPath guesses the format from a file name.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(path, ".osm") || strings.HasSuffix(path, ".xml") {
		return XML
	}
	return PBF
}

// Selector picks the ways that make up the highway.
type Selector struct {
	Ref    string      // matches any entry of a ";"-separated ref tag
	WayIDs []osm.WayID // explicit way list; takes precedence over Ref
}

// Matches reports whether way w belongs to the highway.
func (s Selector) Matches(w *osm.Way) bool {
	if len(s.WayIDs) > 0 {
		return slices.Contains(s.WayIDs, w.ID)
	}
	if s.Ref == "" || w.Tags.Find("highway") == "" {
		return false
	}
	for _, ref := range strings.Split(w.Tags.Find("ref"), ";") {
		if strings.EqualFold(strings.TrimSpace(ref), s.Ref) {
			return true
		}
	}
	return false
}

// stationAmenities lists the amenity values treated as stations.
var stationAmenities = map[string]bool{
	"fuel":             true,
	"charging_station": true,
}

// isStation returns true if the node is a fuel or charging point.
func isStation(tags osm.Tags) bool {
	if !stationAmenities[tags.Find("amenity")] {
		return false
	}
	// Closed sites often keep their amenity tag.
	if tags.Find("disused") == "yes" {
		return false
	}
	return tags.Find("access") != "private"
}

// extract is the raw material gathered from one file.
type extract struct {
	ways   [][]osm.NodeID
	coords map[osm.NodeID]osm.Node
	pois   []osm.Node
}

// objectScanner is the part of the osmpbf and osmxml scanners the importer uses.
type objectScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

// newScanner opens a scanner over r. The pbf scanner can skip object
// classes; the XML scanner always returns everything.
func newScanner(ctx context.Context, r io.Reader, format Format, nodes bool) objectScanner {
	if format == XML {
		return osmxml.New(ctx, r)
	}
	sc := osmpbf.New(ctx, r, 1)
	sc.SkipRelations = true
	sc.SkipNodes = !nodes
	sc.SkipWays = nodes
	return sc
}

// read collects the selected ways, the coordinates of their nodes, and every
// station node. The reader is consumed twice (seeks back to start for the
// second pass), so it must implement io.ReadSeeker.
func read(ctx context.Context, rs io.ReadSeeker, format Format, sel Selector) (*extract, error) {
	ex := &extract{}
	referenced := make(map[osm.NodeID]struct{})

	// Pass 1: ways.
	scanner := newScanner(ctx, rs, format, false)
	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || len(w.Nodes) < 2 || !sel.Matches(w) {
			continue
		}
		ids := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			ids[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ex.ways = append(ex.ways, ids)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d ways, %d referenced nodes", len(ex.ways), len(referenced))

	// Pass 2: coordinates of referenced nodes, plus station nodes.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	ex.coords = make(map[osm.NodeID]osm.Node, len(referenced))
	scanner = newScanner(ctx, rs, format, true)
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; needed {
			ex.coords[n.ID] = osm.Node{ID: n.ID, Lat: n.Lat, Lon: n.Lon}
		}
		if isStation(n.Tags) {
			ex.pois = append(ex.pois, *n)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates, %d candidate stations", len(ex.coords), len(ex.pois))
	return ex, nil
}

// chain joins ways that share endpoints into the longest continuous node
// sequence. Ways may be reversed to fit. It returns the sequence and the
// number of ways used.
func chain(ways [][]osm.NodeID) ([]osm.NodeID, int) {
	if len(ways) == 0 {
		return nil, 0
	}

	ends := make(map[osm.NodeID][]int)
	for i, w := range ways {
		ends[w[0]] = append(ends[w[0]], i)
		ends[w[len(w)-1]] = append(ends[w[len(w)-1]], i)
	}

	// Walks start at open ends; a road that closes on itself has none.
	type origin struct {
		way      int
		reversed bool
	}
	var origins []origin
	for i, w := range ways {
		if len(ends[w[0]]) == 1 {
			origins = append(origins, origin{i, false})
		}
		if len(ends[w[len(w)-1]]) == 1 {
			origins = append(origins, origin{i, true})
		}
	}
	if len(origins) == 0 {
		origins = append(origins, origin{0, false})
	}

	var best []osm.NodeID
	bestUsed := 0
	for _, o := range origins {
		used := make([]bool, len(ways))
		used[o.way] = true
		seq := slices.Clone(ways[o.way])
		if o.reversed {
			slices.Reverse(seq)
		}
		n := 1
		for {
			tail := seq[len(seq)-1]
			next := -1
			for _, i := range ends[tail] {
				if !used[i] {
					next = i
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			n++
			w := ways[next]
			if w[0] != tail {
				w = slices.Clone(w)
				slices.Reverse(w)
			}
			seq = append(seq, w[1:]...)
		}
		if len(seq) > len(best) {
			best, bestUsed = seq, n
		}
	}
	return best, bestUsed
}
