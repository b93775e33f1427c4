package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/psantana5/tictoc/pkg/api"
	"github.com/psantana5/tictoc/pkg/tictoc"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRouter(reg *tictoc.Registry) *mux.Router {
	handler := api.NewHandler(reg)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(tictoc.New(tictoc.WithVerbose(false)))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := tictoc.New(tictoc.WithClock(clock.Now), tictoc.WithVerbose(false))
	router := newTestRouter(reg)

	for _, d := range []time.Duration{4 * time.Millisecond, 8 * time.Millisecond} {
		reg.Start("encode")
		clock.Advance(d)
		reg.Stop("encode")
	}

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response: %s", w.Code, w.Body.String())
	}

	var response api.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	st, ok := response.Timers["encode"]
	if !ok {
		t.Fatalf("Expected stats for tag encode, got %v", response.Timers)
	}
	if st.Count != 2 {
		t.Errorf("Expected count 2, got %d", st.Count)
	}
	if st.MeanNs != 6e6 {
		t.Errorf("Expected mean 6e6, got %f", st.MeanNs)
	}
	if st.MinNs != 4e6 || st.MaxNs != 8e6 {
		t.Errorf("Expected min 4e6 max 8e6, got min %f max %f", st.MinNs, st.MaxNs)
	}
}

func TestStatsEndpointEmptyRegistry(t *testing.T) {
	router := newTestRouter(tictoc.New(tictoc.WithVerbose(false)))

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response api.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Timers) != 0 {
		t.Errorf("Expected no timers, got %v", response.Timers)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := tictoc.New(tictoc.WithClock(clock.Now), tictoc.WithVerbose(false))
	router := newTestRouter(reg)

	reg.Start("x")
	clock.Advance(time.Millisecond)
	reg.Stop("x")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `tictoc_observations_total{tag="x"} 1`) {
		t.Errorf("Expected exposition to contain the x tag counter.\nBody:\n%s", w.Body.String())
	}
}
