package cart

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "cart"

type Metrics struct {
	ItemsAdded    prometheus.Counter
	Checkouts     prometheus.Counter
	Invalidations prometheus.Counter
}

// NewMetrics registers the cart counters plus two gauges read from carts at
// scrape time. The average ticket gauge reads 0 while no cart is active.
func NewMetrics(reg prometheus.Registerer, carts *Registry) *Metrics {
	m := &Metrics{
		ItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "items_added_total",
			Help:      "Successful add-item operations",
		}),
		Checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "checkouts_total",
			Help:      "Carts closed through checkout",
		}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invalidations_total",
			Help:      "Carts dropped without checkout",
		}),
	}

	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "active_carts",
		Help:      "Carts currently held in the registry",
	}, func() float64 { return float64(carts.Len()) })

	ticket := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "average_ticket",
		Help:      "Mean total of active carts, rounded to two places",
	}, func() float64 {
		avg, err := carts.AverageTicket()
		if err != nil {
			return 0
		}
		f, _ := avg.Float64()
		return f
	})

	reg.MustRegister(m.ItemsAdded, m.Checkouts, m.Invalidations, active, ticket)
	return m
}

func (m *Metrics) itemAdded() {
	if m != nil {
		m.ItemsAdded.Inc()
	}
}

func (m *Metrics) checkedOut() {
	if m != nil {
		m.Checkouts.Inc()
	}
}

func (m *Metrics) invalidated() {
	if m != nil {
		m.Invalidations.Inc()
	}
}
