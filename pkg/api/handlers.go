package api

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"highway_router/pkg/highway"
	"highway_router/pkg/planner"
	"highway_router/pkg/protocol"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	session *protocol.Session
	paths   *cache.Cache
}

// cachedPath is a path answer tagged with the session generation it was
// planned against. It is served only while that generation is current.
type cachedPath struct {
	resp       PathResponse
	generation uint64
}

// NewHandlers creates handlers over session. Successful path answers are
// cached for pathTTL (forever when pathTTL <= 0) and dropped on every
// mutation.
func NewHandlers(session *protocol.Session, pathTTL time.Duration) *Handlers {
	return &Handlers{
		session: session,
		paths:   cache.New(pathTTL, 2*pathTTL),
	}
}

// HandleAddStation handles POST /api/v1/stations.
func (h *Handlers) HandleAddStation(w http.ResponseWriter, r *http.Request) {
	var req StationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Distance == nil || *req.Distance < 0 {
		writeError(w, http.StatusBadRequest, "invalid_distance", "distance")
		return
	}
	for _, rng := range req.Ranges {
		if rng < 0 {
			writeError(w, http.StatusBadRequest, "invalid_range", "ranges")
			return
		}
	}

	info, err := h.session.AddStation(*req.Distance, req.Ranges)
	if err != nil {
		if errors.Is(err, highway.ErrDuplicateStation) {
			writeError(w, http.StatusConflict, "station_exists", "distance")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	h.paths.Flush()
	writeStation(w, http.StatusCreated, info)
}

// HandleGetStation handles GET /api/v1/stations/{distance}.
func (h *Handlers) HandleGetStation(w http.ResponseWriter, r *http.Request) {
	distance, ok := pathInt(w, r, "distance")
	if !ok {
		return
	}
	info, err := h.session.Station(distance)
	if err != nil {
		writeError(w, http.StatusNotFound, "station_not_found", "distance")
		return
	}
	writeStation(w, http.StatusOK, info)
}

// HandleDeleteStation handles DELETE /api/v1/stations/{distance}.
func (h *Handlers) HandleDeleteStation(w http.ResponseWriter, r *http.Request) {
	distance, ok := pathInt(w, r, "distance")
	if !ok {
		return
	}
	if err := h.session.ScrapStation(distance); err != nil {
		writeError(w, http.StatusNotFound, "station_not_found", "distance")
		return
	}
	h.paths.Flush()
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddCar handles POST /api/v1/stations/{distance}/cars.
func (h *Handlers) HandleAddCar(w http.ResponseWriter, r *http.Request) {
	distance, ok := pathInt(w, r, "distance")
	if !ok {
		return
	}
	var req CarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Range == nil || *req.Range < 0 {
		writeError(w, http.StatusBadRequest, "invalid_range", "range")
		return
	}

	info, err := h.session.AddCar(distance, *req.Range)
	if err != nil {
		writeError(w, http.StatusNotFound, "station_not_found", "distance")
		return
	}
	h.paths.Flush()
	writeStation(w, http.StatusCreated, info)
}

// HandleScrapCar handles DELETE /api/v1/stations/{distance}/cars/{range}.
func (h *Handlers) HandleScrapCar(w http.ResponseWriter, r *http.Request) {
	distance, ok := pathInt(w, r, "distance")
	if !ok {
		return
	}
	rng, ok := pathInt(w, r, "range")
	if !ok {
		return
	}

	if err := h.session.ScrapCar(distance, rng); err != nil {
		if errors.Is(err, highway.ErrCarNotFound) {
			writeError(w, http.StatusNotFound, "car_not_found", "range")
			return
		}
		writeError(w, http.StatusNotFound, "station_not_found", "distance")
		return
	}
	h.paths.Flush()
	w.WriteHeader(http.StatusNoContent)
}

// HandlePath handles GET /api/v1/path?start=&goal=.
func (h *Handlers) HandlePath(w http.ResponseWriter, r *http.Request) {
	start, ok := queryInt(w, r, "start")
	if !ok {
		return
	}
	goal, ok := queryInt(w, r, "goal")
	if !ok {
		return
	}

	key := strconv.FormatInt(start, 10) + ":" + strconv.FormatInt(goal, 10)
	if cached, found := h.paths.Get(key); found {
		// Entries stored by a plan that raced a mutation are never current.
		if entry := cached.(cachedPath); entry.generation == h.session.Generation() {
			writeJSON(w, http.StatusOK, entry.resp)
			return
		}
		h.paths.Delete(key)
	}

	res, generation, err := h.session.PlanPathAt(start, goal)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrUnknownStation):
			writeError(w, http.StatusNotFound, "station_not_found", "")
		case errors.Is(err, planner.ErrNoPath):
			writeError(w, http.StatusNotFound, "no_path", "")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	resp := PathResponse{Path: res.Path, Hops: res.Hops()}
	h.paths.Set(key, cachedPath{resp: resp, generation: generation}, cache.DefaultExpiration)
	writeJSON(w, http.StatusOK, resp)
}

// HandleCommands handles POST /api/v1/commands. The body is a batch of
// protocol lines; the response holds one answer line per valid request.
func (h *Handlers) HandleCommands(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "text/plain" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	err := h.session.Run(r.Context(), http.MaxBytesReader(w, r.Body, 1<<20), w)
	// Any line may have mutated the highway.
	h.paths.Flush()
	if err != nil {
		// Answers already sent stay valid; the batch is cut short.
		log.Printf("commands: %v", err)
	}
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.session.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{Stations: stats.Stations, Cars: stats.Cars})
}

func writeStation(w http.ResponseWriter, status int, info protocol.StationInfo) {
	writeJSON(w, status, StationResponse{
		Distance: info.Distance,
		MaxRange: info.MaxRange,
		Ranges:   info.Ranges,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return false
	}
	return true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseNonNegative(w, r.PathValue(name), name)
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseNonNegative(w, r.URL.Query().Get(name), name)
}

func parseNonNegative(w http.ResponseWriter, raw, field string) (int64, bool) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest, "invalid_"+field, field)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
