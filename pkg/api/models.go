package api

// StationRequest is the JSON body for POST /api/v1/stations.
type StationRequest struct {
	Distance *int64  `json:"distance"`
	Ranges   []int64 `json:"ranges"`
}

// CarRequest is the JSON body for POST /api/v1/stations/{distance}/cars.
type CarRequest struct {
	Range *int64 `json:"range"`
}

// StationResponse describes one station.
type StationResponse struct {
	Distance int64   `json:"distance"`
	MaxRange int64   `json:"max_range"`
	Ranges   []int64 `json:"ranges"`
}

// PathResponse is the JSON response for a successful path query.
type PathResponse struct {
	Path []int64 `json:"path"`
	Hops int     `json:"hops"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Stations int `json:"stations"`
	Cars     int `json:"cars"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
