package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/adapters/metrics"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
)

func TestGameplayMetricsCollector_RecordsCounters(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewGameplayMetricsCollector()
	require.NoError(t, collector.Register())
	var _ common.MetricsRecorder = collector

	// Act
	collector.RecordProductionFinished(1, "footman", "UNIT")
	collector.RecordProductionFinished(1, "footman", "UNIT")
	collector.RecordResourcesDeposited(1, "GOLD", 10)
	collector.RecordResourcesDeposited(1, "GOLD", 0)
	collector.RecordAttack(2, 7)
	collector.RecordUnitDestroyed(1, "peon")
	collector.RecordProductionCancelled(1, 3)
	collector.RecordTick(time.Millisecond, 4)

	// Assert
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[f.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[f.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["skirmish_simulation_production_finished_total"])
	assert.Equal(t, 10.0, values["skirmish_simulation_resources_deposited_total"])
	assert.Equal(t, 7.0, values["skirmish_simulation_damage_dealt_total"])
	assert.Equal(t, 3.0, values["skirmish_simulation_production_cancelled_orders_total"])
	assert.Equal(t, 4.0, values["skirmish_simulation_running_tasks"])
}

func TestRegister_NoRegistryIsNoOp(t *testing.T) {
	metrics.Registry = nil

	assert.NoError(t, metrics.NewGameplayMetricsCollector().Register())
	assert.False(t, metrics.IsEnabled())
}

type pingCommand struct{}

type pingHandler struct{ err error }

func (h pingHandler) Handle(context.Context, common.Request) (common.Response, error) {
	return "pong", h.err
}

func TestPrometheusMiddleware_CountsByOutcome(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	handler := &pingHandler{}
	m := common.NewMediator()
	m.RegisterMiddleware(metrics.PrometheusMiddleware(collector))
	require.NoError(t, common.RegisterHandler[*pingCommand](m, handler))

	// Act
	_, err := m.Send(context.Background(), &pingCommand{})
	require.NoError(t, err)
	handler.err = errors.New("boom")
	_, err = m.Send(context.Background(), &pingCommand{})

	// Assert
	assert.Error(t, err)
	out, gatherErr := testutil.GatherAndCount(metrics.Registry, "skirmish_mediator_requests_total")
	require.NoError(t, gatherErr)
	assert.Equal(t, 2, out, "one series per status")
}

func TestServer_ExposesRegistry(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewGameplayMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordTick(time.Millisecond, 1)
	server, err := metrics.NewServer("127.0.0.1", 0, "/metrics")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	// Act
	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	cancel()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, string(body), "skirmish_simulation_ticks_total 1")
	assert.NoError(t, <-done)
}
