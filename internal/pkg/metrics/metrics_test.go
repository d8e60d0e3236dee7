package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.CommandsTotal)
	assert.NotNil(t, m.SeatOperationsTotal)
	assert.NotNil(t, m.ConnectedSessions)
	assert.NotNil(t, m.SeatsByState)
	assert.NotNil(t, m.BroadcastRecipients)
	assert.NotNil(t, m.InventoryLockWait)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
}

func gatherFamily(t *testing.T, reg *prometheus.Registry, name string) bool {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return true
		}
	}
	return false
}

func TestCommandsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.CommandsTotal.WithLabelValues("reserve", "success").Inc()
	m.CommandsTotal.WithLabelValues("reserve", "unavailable").Inc()
	m.CommandsTotal.WithLabelValues("check", "success").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "commands_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "commands_total metric not found")
}

func TestSeatOperationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.SeatOperationsTotal.WithLabelValues("reserve", "success").Inc()
	m.SeatOperationsTotal.WithLabelValues("purchase", "failed").Inc()
	m.SeatOperationsTotal.WithLabelValues("sweep", "success").Inc()

	assert.True(t, gatherFamily(t, reg, "seat_operations_total"))
}

func TestConnectedSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ConnectedSessions.Inc()
	m.ConnectedSessions.Inc()
	m.ConnectedSessions.Dec()

	assert.True(t, gatherFamily(t, reg, "connected_sessions"))
}

func TestSeatsByState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.SeatsByState.WithLabelValues("libre").Set(300)
	m.SeatsByState.WithLabelValues("comprado").Set(8)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "seats_by_state" {
			found = true
			assert.Equal(t, 2, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "seats_by_state metric not found")
}

func TestInventoryLockWait(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.InventoryLockWait.Observe(0.0003)
	m.InventoryLockWait.Observe(0.002)

	assert.True(t, gatherFamily(t, reg, "inventory_lock_wait_seconds"))
}

func TestInit_CreatesDefaultMetrics(t *testing.T) {
	// 既存のdefaultMetricsをバックアップ
	oldMetrics := defaultMetrics
	defer func() { defaultMetrics = oldMetrics }()

	// 注意: Initを呼ぶとデフォルトレジストリに登録するため、テストでは直接セット
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	defaultMetrics = m

	got := Get()
	assert.NotNil(t, got)
	assert.Equal(t, m, got)
}
