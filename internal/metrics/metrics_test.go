package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTick(ResultOK)
	m.ObserveTick(ResultOK)
	m.ObserveTick(ResultServerNotFound)
	m.ObserveTransition("changed_to_other", 12, 32)
	m.ObserveNotification(NotifyFailed)
	m.ObserveFetch(250 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ticks.WithLabelValues(ResultServerNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("changed_to_other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues(NotifyFailed)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.PlayersCurrent))
	assert.Equal(t, 32.0, testutil.ToFloat64(m.PlayersMax))

	count, err := testutil.GatherAndCount(reg, "spadewatch_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTick(ResultOK)
		m.ObserveTransition("unchanged", 1, 2)
		m.ObserveNotification(NotifySent)
		m.ObserveFetch(time.Second)
	})
}

func TestNew_Unregistered(t *testing.T) {
	m := New(nil)
	m.ObserveTick(ResultMalformed)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ticks.WithLabelValues(ResultMalformed)))
}
