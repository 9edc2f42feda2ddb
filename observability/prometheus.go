package observability

import "github.com/prometheus/client_golang/prometheus"

// promCounter adapts a prometheus.Counter to the package's Counter
// interface.
type promCounter struct{ c prometheus.Counter }

func (p promCounter) Inc()          { p.c.Inc() }
func (p promCounter) Add(v float64) { p.c.Add(v) }

// promHistogram adapts a prometheus.Histogram to the package's
// Histogram interface.
type promHistogram struct{ h prometheus.Histogram }

func (p promHistogram) Observe(v float64) { p.h.Observe(v) }

// PrometheusFactory implements MetricFactory using client_golang,
// registering every metric it creates against a single registry.
type PrometheusFactory struct {
	registry *prometheus.Registry
}

// NewPrometheusFactory creates a factory backed by registry. If
// registry is nil, a fresh prometheus.Registry is created.
func NewPrometheusFactory(registry *prometheus.Registry) *PrometheusFactory {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &PrometheusFactory{registry: registry}
}

// Registry returns the underlying prometheus registry, for wiring to an
// HTTP handler.
func (f *PrometheusFactory) Registry() *prometheus.Registry { return f.registry }

// Counter implements MetricFactory.
func (f *PrometheusFactory) Counter(name string) Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: metricName(name), Help: name})
	f.registry.MustRegister(c)
	return promCounter{c}
}

// Histogram implements MetricFactory.
func (f *PrometheusFactory) Histogram(name string) Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{Name: metricName(name), Help: name})
	f.registry.MustRegister(h)
	return promHistogram{h}
}

// metricName converts a dotted metric name (e.g.
// "synthledger.run.started") into prometheus's underscore convention.
func metricName(dotted string) string {
	out := make([]byte, len(dotted))
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			out[i] = '_'
		} else {
			out[i] = dotted[i]
		}
	}
	return string(out)
}
