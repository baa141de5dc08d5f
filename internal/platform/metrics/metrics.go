package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the hooks. Every method is safe on
// a nil receiver so components can run without metrics.
type Metrics struct {
	Decisions          *prometheus.CounterVec
	AttributeFailures  *prometheus.CounterVec
	AttestationBlocked *prometheus.CounterVec
	FeatureRewrites    *prometheus.CounterVec
	Terminations       prometheus.Counter
	AttachFailures     *prometheus.CounterVec
}

// New creates and registers all metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pihooks_decisions_total",
			Help: "Spoof decisions applied at process attach, by kind",
		}, []string{"kind"}),
		AttributeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pihooks_attribute_failures_total",
			Help: "Attribute overrides rejected by the override primitive",
		}, []string{"attribute"}),
		AttestationBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pihooks_attestation_blocked_total",
			Help: "Key attestation requests refused, by reason",
		}, []string{"reason"}),
		FeatureRewrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pihooks_feature_rewrites_total",
			Help: "System feature queries whose answer was rewritten, by result",
		}, []string{"result"}),
		Terminations: factory.NewCounter(prometheus.CounterOpts{
			Name: "pihooks_process_terminations_total",
			Help: "Self-terminations triggered by the foreground task monitor",
		}),
		AttachFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pihooks_attach_failures_total",
			Help: "Process attaches that applied nothing because of an error",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementDecision(kind string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementAttributeFailure(attribute string) {
	if m == nil {
		return
	}
	m.AttributeFailures.WithLabelValues(attribute).Inc()
}

func (m *Metrics) IncrementAttestationBlocked(reason string) {
	if m == nil {
		return
	}
	m.AttestationBlocked.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementFeatureRewrite(result bool) {
	if m == nil {
		return
	}
	label := "hidden"
	if result {
		label = "granted"
	}
	m.FeatureRewrites.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementTerminations() {
	if m == nil {
		return
	}
	m.Terminations.Inc()
}

func (m *Metrics) IncrementAttachFailure(reason string) {
	if m == nil {
		return
	}
	m.AttachFailures.WithLabelValues(reason).Inc()
}
