// Package metrics exposes Prometheus collectors of the order status service.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "order_workflow"

// Metrics holds every collector of the service.
type Metrics struct {
	// Committed transitions by department and statuses.
	Transitions *prometheus.CounterVec
	// Events that could not be delivered to the broker.
	PublishErrors prometheus.Counter
	// Circuit breaker state by breaker name: 0 closed, 1 half-open, 2 open.
	BreakerState *prometheus.GaugeVec
}

// New creates the collectors and registers them in reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Committed order status transitions.",
		}, []string{"department", "from", "to"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Status events that failed to reach the broker.",
		}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
	}

	for _, c := range []prometheus.Collector{m.Transitions, m.PublishErrors, m.BreakerState} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// Handler serves the metrics gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
