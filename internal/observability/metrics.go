package observability

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run counters. A fresh registry per run keeps repeated
// in-process runs independent.
type Metrics struct {
	registry *prometheus.Registry

	// PagesFetched counts HTTP pages retrieved from the wiki.
	PagesFetched prometheus.Counter

	// ArticlesEvaluated counts articles that went through the engine.
	ArticlesEvaluated prometheus.Counter

	// Disqualifications counts disqualified articles by reason code.
	Disqualifications *prometheus.CounterVec

	// Anomalies counts operator-visible source conditions by kind.
	Anomalies *prometheus.CounterVec
}

// NewMetrics creates and registers the run counters.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		registry: registry,
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jurybot_pages_fetched_total",
			Help: "Wiki pages retrieved over HTTP.",
		}),
		ArticlesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jurybot_articles_evaluated_total",
			Help: "Articles run through the eligibility engine.",
		}),
		Disqualifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jurybot_disqualifications_total",
			Help: "Disqualified articles by reason code.",
		}, []string{"reason"}),
		Anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jurybot_anomalies_total",
			Help: "Source anomalies paused for operator correction, by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		metrics.PagesFetched,
		metrics.ArticlesEvaluated,
		metrics.Disqualifications,
		metrics.Anomalies,
	)

	return metrics
}

// WriteDiagnostics renders the counters as sorted "name{labels} value"
// lines, shown at the end of verbose runs.
func (m *Metrics) WriteDiagnostics(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := ""
			for _, pair := range metric.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", pair.GetName(), pair.GetValue())
			}

			lines = append(lines, fmt.Sprintf("%s%s %g",
				family.GetName(), labels, metric.GetCounter().GetValue()))
		}
	}

	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write diagnostics: %w", err)
		}
	}

	return nil
}
