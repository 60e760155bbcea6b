package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameplayMetricsCollector implements common.MetricsRecorder with Prometheus
// counters labelled by player
type GameplayMetricsCollector struct {
	productionFinished  *prometheus.CounterVec
	productionCancelled *prometheus.CounterVec
	resourcesDeposited  *prometheus.CounterVec
	attacksTotal        *prometheus.CounterVec
	damageTotal         *prometheus.CounterVec
	unitsDestroyed      *prometheus.CounterVec

	ticksTotal   prometheus.Counter
	tickDuration prometheus.Histogram
	runningTasks prometheus.Gauge
}

// NewGameplayMetricsCollector creates a new gameplay metrics collector
func NewGameplayMetricsCollector() *GameplayMetricsCollector {
	return &GameplayMetricsCollector{
		productionFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_finished_total",
				Help:      "Items finished by production queues",
			},
			[]string{"player_id", "producible", "kind"},
		),
		productionCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_cancelled_orders_total",
				Help:      "Queue orders cancelled and refunded",
			},
			[]string{"player_id"},
		),
		resourcesDeposited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resources_deposited_total",
				Help:      "Resources credited to players by collectors",
			},
			[]string{"player_id", "resource"},
		),
		attacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "attacks_total",
				Help:      "Attacks performed",
			},
			[]string{"player_id"},
		),
		damageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "damage_dealt_total",
				Help:      "Damage dealt by attacks",
			},
			[]string{"player_id"},
		),
		unitsDestroyed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units_destroyed_total",
				Help:      "Units destroyed, by owner and unit name",
			},
			[]string{"player_id", "unit"},
		),
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Simulation ticks advanced",
			},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent per simulation tick",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		runningTasks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "running_tasks",
				Help:      "Unit tasks running after the last tick",
			},
		),
	}
}

// Register registers all gameplay metrics with the Prometheus registry
func (c *GameplayMetricsCollector) Register() error {
	return register(
		c.productionFinished,
		c.productionCancelled,
		c.resourcesDeposited,
		c.attacksTotal,
		c.damageTotal,
		c.unitsDestroyed,
		c.ticksTotal,
		c.tickDuration,
		c.runningTasks,
	)
}

func (c *GameplayMetricsCollector) RecordProductionFinished(playerID int, producibleID string, kind string) {
	c.productionFinished.WithLabelValues(strconv.Itoa(playerID), producibleID, kind).Inc()
}

func (c *GameplayMetricsCollector) RecordProductionCancelled(playerID int, orders int) {
	c.productionCancelled.WithLabelValues(strconv.Itoa(playerID)).Add(float64(orders))
}

func (c *GameplayMetricsCollector) RecordResourcesDeposited(playerID int, resource string, quantity int) {
	if quantity <= 0 {
		return
	}
	c.resourcesDeposited.WithLabelValues(strconv.Itoa(playerID), resource).Add(float64(quantity))
}

func (c *GameplayMetricsCollector) RecordAttack(playerID int, damage int) {
	player := strconv.Itoa(playerID)
	c.attacksTotal.WithLabelValues(player).Inc()
	if damage > 0 {
		c.damageTotal.WithLabelValues(player).Add(float64(damage))
	}
}

func (c *GameplayMetricsCollector) RecordUnitDestroyed(playerID int, unitName string) {
	c.unitsDestroyed.WithLabelValues(strconv.Itoa(playerID), unitName).Inc()
}

func (c *GameplayMetricsCollector) RecordTick(duration time.Duration, runningTasks int) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(duration.Seconds())
	c.runningTasks.Set(float64(runningTasks))
}
