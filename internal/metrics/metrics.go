// Package metrics counts simulation outcomes in a private Prometheus
// registry that is dumped to a node-exporter textfile after a command.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustyeddy/stoploss/sim"
)

type Metrics struct {
	reg *prometheus.Registry

	runs     prometheus.Counter
	steps    prometheus.Counter
	switches *prometheus.CounterVec
	shocks   prometheus.Counter
	finalNet prometheus.Histogram
	surplus  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stoploss_runs_total",
			Help: "Simulations completed.",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stoploss_steps_total",
			Help: "Daily steps simulated.",
		}),
		switches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stoploss_switches_total",
			Help: "Holding switches, by destination asset.",
		}, []string{"to"}),
		shocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stoploss_stress_shocks_total",
			Help: "Stress shocks applied.",
		}),
		finalNet: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stoploss_final_net_value",
			Help:    "Final net-of-tax value per run (initial capital = 1).",
			Buckets: prometheus.LinearBuckets(0.5, 0.1, 16),
		}),
		surplus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stoploss_last_net_surplus",
			Help: "Net surplus over the floor of the last observed run.",
		}),
	}
	m.reg.MustRegister(m.runs, m.steps, m.switches, m.shocks, m.finalNet, m.surplus)
	return m
}

// Observe records one finished run.
func (m *Metrics) Observe(r *sim.Result) {
	s := r.Summary()
	m.runs.Inc()
	m.steps.Add(float64(r.Len()))
	for _, sw := range r.Switches {
		m.switches.WithLabelValues(sw.To.String()).Inc()
	}
	m.shocks.Add(float64(s.Shocks))
	m.finalNet.Observe(s.FinalNet)
	m.surplus.Set(s.NetSurplus)
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
