package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementDecision("named_profile")
	m.IncrementDecision("named_profile")
	m.IncrementFeatureRewrite(false)
	m.IncrementTerminations()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("named_profile")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeatureRewrites.WithLabelValues("hidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Terminations))
}

func TestNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementDecision("none")
		m.IncrementAttributeFailure("MODEL")
		m.IncrementAttestationBlocked("storefront")
		m.IncrementFeatureRewrite(true)
		m.IncrementTerminations()
		m.IncrementAttachFailure("empty_identity")
	})
}
