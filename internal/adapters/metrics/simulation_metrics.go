package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SimulationMetricsCollector records tick loop, event, and optimizer
// telemetry. It implements simulation.MetricsRecorder.
type SimulationMetricsCollector struct {
	ticksTotal       prometheus.Counter
	eventsTotal      *prometheus.CounterVec
	replansTotal     prometheus.Counter
	replanDuration   prometheus.Histogram
	optimizerScore   prometheus.Gauge
	optimizerIters   prometheus.Gauge
	vehicleStatus    *prometheus.GaugeVec
	deliveredM3Total prometheus.Counter
	deliveriesTotal  prometheus.Counter
}

// NewSimulationMetricsCollector creates a new simulation metrics collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks executed",
		}),

		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_total",
				Help:      "Total number of simulation events applied, by kind",
			},
			[]string{"kind"},
		),

		replansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "replans_total",
			Help:      "Total number of optimizer replanning runs",
		}),

		replanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "replan_duration_seconds",
			Help:      "Optimizer replanning duration distribution",
			Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}),

		optimizerScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimizer_score",
			Help:      "Score of the most recent accepted solution",
		}),

		optimizerIters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "optimizer_iterations",
			Help:      "Iterations consumed by the most recent optimizer run",
		}),

		vehicleStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "vehicle_status",
				Help:      "Per-vehicle status flag (1 for the current status, 0 otherwise)",
			},
			[]string{"vehicle", "status"},
		),

		deliveredM3Total: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivered_m3_total",
			Help:      "Total LPG volume delivered to customers",
		}),

		deliveriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deliveries_total",
			Help:      "Total number of completed customer discharges",
		}),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.eventsTotal,
		c.replansTotal,
		c.replanDuration,
		c.optimizerScore,
		c.optimizerIters,
		c.vehicleStatus,
		c.deliveredM3Total,
		c.deliveriesTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordTick counts one executed tick
func (c *SimulationMetricsCollector) RecordTick() {
	c.ticksTotal.Inc()
}

// RecordEvent counts one applied event by kind
func (c *SimulationMetricsCollector) RecordEvent(kind string) {
	c.eventsTotal.WithLabelValues(kind).Inc()
}

// RecordReplan records one optimizer run
func (c *SimulationMetricsCollector) RecordReplan(duration time.Duration, score float64, iterations int) {
	c.replansTotal.Inc()
	c.replanDuration.Observe(duration.Seconds())
	c.optimizerScore.Set(score)
	c.optimizerIters.Set(float64(iterations))
}

// SetVehicleStatus flags the vehicle's current status
func (c *SimulationMetricsCollector) SetVehicleStatus(vehicleID, status string) {
	c.vehicleStatus.WithLabelValues(vehicleID, status).Set(1)
}

// RecordDelivery counts one completed customer discharge
func (c *SimulationMetricsCollector) RecordDelivery(amountM3 int) {
	c.deliveriesTotal.Inc()
	c.deliveredM3Total.Add(float64(amountM3))
}
