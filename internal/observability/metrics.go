package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the calculation tools.
type Metrics struct {
	Calculations      *prometheus.CounterVec // labels: model, outcome={ok,invalid,error}
	DocumentsRendered *prometheus.CounterVec // labels: format={markdown,pdf,svg,xlsx}
	ImportRows        *prometheus.CounterVec // labels: outcome={ok,invalid}
}

func newMetrics() *Metrics {
	return &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeolus",
			Name:      "calculations_total",
			Help:      "Wind pressure calculations by Cp model and outcome.",
		}, []string{"model", "outcome"}),
		DocumentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeolus",
			Name:      "documents_rendered_total",
			Help:      "Reports, diagrams and spreadsheets produced, by format.",
		}, []string{"format"}),
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeolus",
			Name:      "import_rows_total",
			Help:      "Spreadsheet rows evaluated by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.Calculations, m.DocumentsRendered, m.ImportRows)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Outcome maps a calculation error to the outcome label.
func Outcome(err error, invalid func(error) bool) string {
	switch {
	case err == nil:
		return "ok"
	case invalid(err):
		return "invalid"
	default:
		return "error"
	}
}
