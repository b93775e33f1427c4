// Package api exposes timer statistics over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	exporter "github.com/psantana5/tictoc/pkg/exporters/prometheus"
	"github.com/psantana5/tictoc/pkg/logging"
	"github.com/psantana5/tictoc/pkg/tictoc"
)

// TagStats is the JSON shape served per tag by /stats
type TagStats struct {
	MeanNs     float64 `json:"mean_ns"`
	VarianceNs float64 `json:"variance_ns"`
	StdDevNs   float64 `json:"stddev_ns"`
	MinNs      float64 `json:"min_ns"`
	MaxNs      float64 `json:"max_ns"`
	Count      uint64  `json:"count"`
}

// StatsResponse is the /stats response body
type StatsResponse struct {
	Timers map[string]TagStats `json:"timers"`
}

// Handler handles timer statistics API requests
type Handler struct {
	timers   *tictoc.Registry
	exporter *exporter.Exporter
	log      *logging.Logger
}

// NewHandler creates a new API handler over the given registry
func NewHandler(timers *tictoc.Registry) *Handler {
	return &Handler{
		timers:   timers,
		exporter: exporter.NewExporter(timers),
		log:      logging.NewComponentLogger("api", logging.INFO, false),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Handle("/metrics", h.exporter).Methods("GET")
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
}

// GetStats runs an aggregation cycle and returns all per-tag statistics
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	aggregated := h.timers.Aggregate()

	response := StatsResponse{Timers: make(map[string]TagStats, len(aggregated))}
	for tag, st := range aggregated {
		response.Timers[tag] = TagStats{
			MeanNs:     st.Mean,
			VarianceNs: st.Variance(),
			StdDevNs:   st.StdDev(),
			MinNs:      st.Min,
			MaxNs:      st.Max,
			Count:      st.Count,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode stats response", map[string]interface{}{"error": err.Error()})
	}
}

// Health handles health checks
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
