package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the evaluation engine.
// Tracks per-turn outcomes, final eligibility results, and evaluation latency.
type Metrics struct {
	Evaluations        *prometheus.CounterVec
	EligibilityResults *prometheus.CounterVec
	Reprompts          *prometheus.CounterVec
	Overrides          prometheus.Counter
	FuzzyConfirmations prometheus.Counter
	EvaluateDuration   prometheus.Histogram
}

// Outcome labels for the per-turn evaluation counter.
const (
	OutcomeAdvanced = "advanced"
	OutcomeReprompt = "reprompt"
	OutcomeFinal    = "final"
	OutcomeError    = "error"
)

// New creates a Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "codee_evaluations_total",
			Help: "Total evaluated turns by outcome",
		}, []string{"outcome"}),
		EligibilityResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "codee_eligibility_results_total",
			Help: "Final eligibility decisions by result tag",
		}, []string{"result"}),
		Reprompts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "codee_reprompts_total",
			Help: "Turns answered with a re-prompt, by unreadable fact kind",
		}, []string{"reason"}),
		Overrides: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codee_override_decisions_total",
			Help: "Final decisions produced by a global override rule",
		}),
		FuzzyConfirmations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "codee_city_fuzzy_confirmations_total",
			Help: "City suggestions that required a confirmation turn",
		}),
		EvaluateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "codee_evaluate_duration_seconds",
			Help:    "Duration of a single turn evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementEvaluation records an evaluated turn. Safe on a nil receiver so
// tests can run without a registry.
func (m *Metrics) IncrementEvaluation(outcome string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(outcome).Inc()
}

// IncrementEligibility records a final decision by its result tag.
func (m *Metrics) IncrementEligibility(tag string) {
	if m == nil || tag == "" {
		return
	}
	m.EligibilityResults.WithLabelValues(tag).Inc()
}

// IncrementReprompt records a turn that had to be re-asked.
func (m *Metrics) IncrementReprompt(reason string) {
	if m == nil {
		return
	}
	m.Reprompts.WithLabelValues(reason).Inc()
}

// IncrementOverride records a decision short-circuited by an override rule.
func (m *Metrics) IncrementOverride() {
	if m == nil {
		return
	}
	m.Overrides.Inc()
}

// IncrementFuzzyConfirmation records a city suggestion sent for confirmation.
func (m *Metrics) IncrementFuzzyConfirmation() {
	if m == nil {
		return
	}
	m.FuzzyConfirmations.Inc()
}

// ObserveEvaluate records the duration of one turn.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveEvaluate(start time.Time) {
	if m == nil {
		return
	}
	m.EvaluateDuration.Observe(time.Since(start).Seconds())
}
