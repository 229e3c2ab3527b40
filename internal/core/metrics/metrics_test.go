package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncViolation("R06")
	m.IncViolation("R06")
	m.IncViolation("R59")
	m.IncSubmission("violations")
	m.ObserveRuleDuration("R06", time.Millisecond)
	m.ObserveRunDuration(time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Violations.WithLabelValues("R06")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues("R59")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("violations")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncViolation("R06")
		m.ObserveRuleDuration("R06", time.Millisecond)
		m.ObserveRunDuration(time.Second)
		m.IncSubmission("clean")
	})
}
