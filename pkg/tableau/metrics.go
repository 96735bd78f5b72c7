package tableau

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional bundle of Prometheus collectors a host process
// can register; a Tableau built with WithMetrics(m) reports into it, and
// library use without a registry costs nothing (the zero value, a nil
// *Metrics on Options, is never touched).
type Metrics struct {
	StepsTotal         prometheus.Counter
	BranchesClosed     prometheus.Counter
	BranchesOpened     prometheus.Counter
	RulesApplied       *prometheus.CounterVec
	BuildDuration      prometheus.Histogram
}

// NewMetrics builds a Metrics bundle registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tableau_steps_total",
			Help: "Total number of rule-application steps taken across all tableaux.",
		}),
		BranchesClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tableau_branches_closed_total",
			Help: "Total number of branches closed.",
		}),
		BranchesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tableau_branches_opened_total",
			Help: "Total number of branches opened (including forks).",
		}),
		RulesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tableau_rule_applications_total",
			Help: "Total number of rule applications, labeled by rule name.",
		}, []string{"rule"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tableau_build_duration_seconds",
			Help:    "Wall-clock duration of Tableau.Build calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.StepsTotal, m.BranchesClosed, m.BranchesOpened, m.RulesApplied, m.BuildDuration)
	return m
}

// observeRuleApply records one rule application against m, tolerating a
// nil m so a Tableau built without WithMetrics pays nothing.
func (m *Metrics) observeRuleApply(name string) {
	if m == nil {
		return
	}
	m.StepsTotal.Inc()
	m.RulesApplied.WithLabelValues(name).Inc()
}

func (m *Metrics) observeBranchOpened() {
	if m == nil {
		return
	}
	m.BranchesOpened.Inc()
}

func (m *Metrics) observeBranchClosed() {
	if m == nil {
		return
	}
	m.BranchesClosed.Inc()
}

func (m *Metrics) observeBuildDuration(seconds float64) {
	if m == nil {
		return
	}
	m.BuildDuration.Observe(seconds)
}
