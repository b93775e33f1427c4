// Package prometheus exposes a tictoc registry as Prometheus metrics.
package prometheus

import (
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/psantana5/tictoc/pkg/logging"
	"github.com/psantana5/tictoc/pkg/tictoc"
)

var (
	descCount = promclient.NewDesc(
		"tictoc_observations_total",
		"Number of observations aggregated per tag",
		[]string{"tag"}, nil,
	)
	descMean = promclient.NewDesc(
		"tictoc_duration_mean_nanoseconds",
		"Mean duration per tag in nanoseconds",
		[]string{"tag"}, nil,
	)
	descStdDev = promclient.NewDesc(
		"tictoc_duration_stddev_nanoseconds",
		"Sample standard deviation of durations per tag in nanoseconds",
		[]string{"tag"}, nil,
	)
	descMin = promclient.NewDesc(
		"tictoc_duration_min_nanoseconds",
		"Minimum duration per tag in nanoseconds",
		[]string{"tag"}, nil,
	)
	descMax = promclient.NewDesc(
		"tictoc_duration_max_nanoseconds",
		"Maximum duration per tag in nanoseconds",
		[]string{"tag"}, nil,
	)
)

// Exporter exports aggregated timer statistics in Prometheus format.
// It implements prometheus.Collector; each scrape runs one aggregation
// cycle on the underlying registry.
type Exporter struct {
	timers *tictoc.Registry
	prom   *promclient.Registry
	log    *logging.Logger
}

// NewExporter creates an exporter over the given timer registry.
func NewExporter(timers *tictoc.Registry) *Exporter {
	e := &Exporter{
		timers: timers,
		prom:   promclient.NewRegistry(),
		log:    logging.NewComponentLogger("exporter", logging.WARN, false),
	}
	e.prom.MustRegister(e)
	return e
}

// Describe implements prometheus.Collector
func (e *Exporter) Describe(ch chan<- *promclient.Desc) {
	ch <- descCount
	ch <- descMean
	ch <- descStdDev
	ch <- descMin
	ch <- descMax
}

// Collect implements prometheus.Collector
func (e *Exporter) Collect(ch chan<- promclient.Metric) {
	for tag, st := range e.timers.Aggregate() {
		ch <- promclient.MustNewConstMetric(descCount, promclient.CounterValue, float64(st.Count), tag)
		ch <- promclient.MustNewConstMetric(descMean, promclient.GaugeValue, st.Mean, tag)
		ch <- promclient.MustNewConstMetric(descStdDev, promclient.GaugeValue, st.StdDev(), tag)
		ch <- promclient.MustNewConstMetric(descMin, promclient.GaugeValue, st.Min, tag)
		ch <- promclient.MustNewConstMetric(descMax, promclient.GaugeValue, st.Max, tag)
	}
}

// ServeHTTP serves the text exposition format at /metrics
func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	metricFamilies, err := e.prom.Gather()
	if err != nil {
		e.log.Error("Failed to gather metrics", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Error collecting metrics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	encoder := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metricFamilies {
		if err := encoder.Encode(mf); err != nil {
			// Log error but continue with the remaining families
			e.log.Error("Failed to encode metric family", map[string]interface{}{
				"family": mf.GetName(),
				"error":  err.Error(),
			})
		}
	}
}
