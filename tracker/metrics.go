package tracker

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeLoaded    = "loaded"
	outcomeFailed    = "failed"
	outcomeDiscarded = "discarded"
)

// Metrics exposes tracker progress. A nil *Metrics records nothing.
type Metrics struct {
	Pending  prometheus.Gauge
	Resolved *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when reg is not
// nil. name distinguishes trackers of different id types.
func NewMetrics(reg prometheus.Registerer, name string) (*Metrics, error) {
	labels := prometheus.Labels{"tracker": name}
	m := &Metrics{
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "sceneextras",
			Subsystem:   "tracker",
			Name:        "pending",
			Help:        "Scene handles waiting for a terminal load state.",
			ConstLabels: labels,
		}),
		Resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "sceneextras",
			Subsystem:   "tracker",
			Name:        "resolved_total",
			Help:        "Tracked scene handles removed, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Pending, m.Resolved} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(n))
}

func (m *Metrics) resolved(outcome string) {
	if m == nil {
		return
	}
	m.Resolved.WithLabelValues(outcome).Inc()
}
