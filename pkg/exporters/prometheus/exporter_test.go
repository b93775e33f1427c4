package prometheus_test

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	exporter "github.com/psantana5/tictoc/pkg/exporters/prometheus"
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

func TestExporterServesAggregatedStats(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := tictoc.New(tictoc.WithClock(clock.Now), tictoc.WithVerbose(false))
	e := exporter.NewExporter(reg)

	for _, d := range []time.Duration{10 * time.Millisecond, 30 * time.Millisecond} {
		reg.Start("encode")
		clock.Advance(d)
		reg.Stop("encode")
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text exposition content type, got %q", ct)
	}

	body := w.Body.String()
	checks := []string{
		`tictoc_observations_total{tag="encode"} 2`,
		`tictoc_duration_mean_nanoseconds{tag="encode"} 2e+07`,
		`tictoc_duration_min_nanoseconds{tag="encode"} 1e+07`,
		`tictoc_duration_max_nanoseconds{tag="encode"} 3e+07`,
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q.\nBody:\n%s", want, body)
		}
	}
}

func TestExporterScrapeRunsAggregation(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := tictoc.New(tictoc.WithClock(clock.Now), tictoc.WithVerbose(false))
	e := exporter.NewExporter(reg)

	reg.Start("x")
	clock.Advance(time.Millisecond)
	reg.Stop("x")

	// The scrape itself aggregates, so a direct Aggregate afterwards
	// must see the observation already folded in
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	stats := reg.Aggregate()
	if stats["x"].Count != 1 {
		t.Errorf("Expected the scrape to have aggregated the observation, got count %d", stats["x"].Count)
	}
}
