package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"q.log/ratsimplex/simplex"
)

const (
	OutcomeLabel = "outcome"
	PhaseLabel   = "phase"

	// Failed is the outcome label of a solve that returned an error.
	Failed = "error"
)

// Collector counts solves and pivots. It is safe for concurrent use.
type Collector struct {
	Solves         *prometheus.CounterVec
	Pivots         *prometheus.CounterVec
	PivotsPerSolve prometheus.Histogram

	registry *prometheus.Registry
}

// New returns a Collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratsimplex_solves_total",
			Help: "Number of solves by outcome.",
		}, []string{OutcomeLabel}),
		Pivots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratsimplex_pivots_total",
			Help: "Number of pivots by simplex phase.",
		}, []string{PhaseLabel}),
		PivotsPerSolve: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ratsimplex_pivots_per_solve",
			Help:    "Pivots needed by one solve.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(c)
	return c
}

// Describe returns all descriptions of the collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.Solves.Describe(ch)
	c.Pivots.Describe(ch)
	c.PivotsPerSolve.Describe(ch)
}

// Collect returns the current state of all metrics of the collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.Solves.Collect(ch)
	c.Pivots.Collect(ch)
	c.PivotsPerSolve.Collect(ch)
}

// ObserveSolve records one finished solve.
func (c *Collector) ObserveSolve(res simplex.Result, stats simplex.Stats) {
	c.Solves.WithLabelValues(res.Outcome().String()).Inc()
	c.Pivots.WithLabelValues("phase1").Add(float64(stats.Phase1Pivots))
	c.Pivots.WithLabelValues("phase2").Add(float64(stats.Phase2Pivots))
	c.PivotsPerSolve.Observe(float64(stats.Pivots()))
}

// ObserveError records a solve that failed.
func (c *Collector) ObserveError() {
	c.Solves.WithLabelValues(Failed).Inc()
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteToTextfile writes the metrics in the text exposition format, for the
// node exporter's textfile collector.
func (c *Collector) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.registry)
}
