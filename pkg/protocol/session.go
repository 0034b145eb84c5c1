package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"highway_router/pkg/highway"
	"highway_router/pkg/metrics"
	"highway_router/pkg/planner"
)

// StationInfo is a read-only snapshot of one station.
type StationInfo struct {
	Distance int64
	MaxRange int64
	Ranges   []int64
}

// Stats summarizes the highway.
type Stats struct {
	Stations int
	Cars     int
}

// Session owns a highway and applies requests to it one at a time.
// All methods are safe for concurrent use; requests are serialized.
type Session struct {
	mu      sync.Mutex
	index   *highway.Index
	planner *planner.Planner
	dialect Dialect

	// generation counts successful mutations.
	generation uint64
}

// NewSession creates a session over an empty highway.
func NewSession(d Dialect) *Session {
	ix := highway.NewIndex()
	return &Session{
		index:   ix,
		planner: planner.New(ix),
		dialect: d,
	}
}

// Dialect returns the response vocabulary of the session.
func (s *Session) Dialect() Dialect { return s.dialect }

// AddStation builds a station at distance stocked with ranges and returns
// the station as built.
func (s *Session) AddStation(distance int64, ranges []int64) (StationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.addStation(distance, ranges); err != nil {
		return StationInfo{}, err
	}
	return s.station(distance)
}

// AddCar parks a vehicle at the station at distance and returns the
// station as it stands afterwards.
func (s *Session) AddCar(distance, r int64) (StationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.addCar(distance, r); err != nil {
		return StationInfo{}, err
	}
	return s.station(distance)
}

// ScrapCar removes one vehicle with range r from the station at distance.
func (s *Session) ScrapCar(distance, r int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrapCar(distance, r)
}

// ScrapStation demolishes the station at distance and its vehicles.
func (s *Session) ScrapStation(distance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrapStation(distance)
}

// PlanPath finds a minimum-hop path between two stations.
func (s *Session) PlanPath(start, goal int64) (*planner.Result, error) {
	res, _, err := s.PlanPathAt(start, goal)
	return res, err
}

// PlanPathAt is PlanPath that also reports the generation the answer was
// computed against. The answer holds for as long as Generation returns
// the same value.
func (s *Session) PlanPathAt(start, goal int64) (*planner.Result, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.planPath(start, goal)
	return res, s.generation, err
}

// Generation returns a counter bumped by every successful mutation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Station returns a snapshot of the station at distance.
func (s *Session) Station(distance int64) (StationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.station(distance)
}

func (s *Session) station(distance int64) (StationInfo, error) {
	st, ok := s.index.Lookup(distance)
	if !ok {
		return StationInfo{}, highway.ErrStationNotFound
	}
	return StationInfo{
		Distance: st.Distance(),
		MaxRange: st.MaxRange(),
		Ranges:   st.Cars().Ranges(),
	}, nil
}

// Stats counts stations and vehicles.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Stats{Stations: s.index.Len()}
	s.index.Ascend(0, func(st *highway.Station) bool {
		stats.Cars += st.Cars().Len()
		return true
	})
	return stats
}

// Execute applies cmd and returns its response line without a newline.
func (s *Session) Execute(cmd Command) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(cmd)
}

// ExecuteLine parses and applies one request line.
func (s *Session) ExecuteLine(line string) (string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return "", err
	}
	return s.Execute(cmd), nil
}

// Run reads requests from r until EOF or until ctx is done, writing one
// response line per request to w. Malformed lines are logged and skipped.
// Output is flushed whenever the input has no more buffered requests, so
// interactive use sees each answer immediately.
func (s *Session) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	br := bufio.NewReaderSize(r, 64*1024)
	bw := bufio.NewWriterSize(w, 64*1024)

	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			bw.Flush()
			return err
		}

		line, readErr := br.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			resp, err := s.ExecuteLine(line)
			if err != nil {
				log.Printf("line %d: %v", lineNo, err)
			} else {
				bw.WriteString(resp)
				bw.WriteByte('\n')
			}
		}

		if errors.Is(readErr, io.EOF) {
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
			return nil
		}
		if readErr != nil {
			bw.Flush()
			return fmt.Errorf("read request: %w", readErr)
		}
		if br.Buffered() == 0 {
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// Close tears the highway down. The session is empty afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.Close()
	metrics.SetStations(0)
}

func (s *Session) execute(cmd Command) string {
	d := s.dialect
	switch cmd.Kind {
	case AddStation:
		return pick(s.addStation(cmd.Distance, cmd.Ranges), d.Added, d.NotAdded)
	case AddCar:
		return pick(s.addCar(cmd.Distance, cmd.Range), d.Added, d.NotAdded)
	case ScrapCar:
		return pick(s.scrapCar(cmd.Distance, cmd.Range), d.Scrapped, d.NotScrapped)
	case ScrapStation:
		return pick(s.scrapStation(cmd.Distance), d.Demolished, d.NotDemolished)
	case PlanPath:
		res, err := s.planPath(cmd.Distance, cmd.Goal)
		if err != nil {
			return d.NoPath
		}
		return FormatPath(res.Path)
	}
	return ""
}

func (s *Session) addStation(distance int64, ranges []int64) error {
	err := s.index.Insert(highway.NewStation(distance, ranges...))
	s.observe(AddStation, err)
	metrics.SetStations(s.index.Len())
	return err
}

func (s *Session) addCar(distance, r int64) error {
	err := s.index.AddCar(distance, r)
	s.observe(AddCar, err)
	return err
}

func (s *Session) scrapCar(distance, r int64) error {
	err := s.index.ScrapCar(distance, r)
	s.observe(ScrapCar, err)
	return err
}

func (s *Session) scrapStation(distance int64) error {
	var err error
	if !s.index.Delete(distance) {
		err = highway.ErrStationNotFound
	}
	s.observe(ScrapStation, err)
	metrics.SetStations(s.index.Len())
	return err
}

func (s *Session) planPath(start, goal int64) (*planner.Result, error) {
	direction := "forward"
	switch {
	case start == goal:
		direction = "none"
	case start > goal:
		direction = "backward"
	}

	began := time.Now()
	res, err := s.planner.Plan(start, goal)
	took := time.Since(began)

	if err != nil {
		metrics.ObservePlan(direction, took, -1, 0)
		metrics.ObserveCommand(PlanPath.String(), metrics.OutcomeNoPath)
		return nil, err
	}
	metrics.ObservePlan(direction, took, res.Hops(), res.Stats.CursorAdvances)
	metrics.ObserveCommand(PlanPath.String(), metrics.OutcomeOK)
	return res, nil
}

// observe records a mutation outcome and bumps the generation on success.
func (s *Session) observe(kind Kind, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeRejected
	} else {
		s.generation++
	}
	metrics.ObserveCommand(kind.String(), outcome)
}

func pick(err error, ok, rejected string) string {
	if err != nil {
		return rejected
	}
	return ok
}

// FormatPath renders station distances separated by single spaces.
func FormatPath(path []int64) string {
	buf := make([]byte, 0, len(path)*8)
	for i, d := range path {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, d, 10)
	}
	return string(buf)
}
