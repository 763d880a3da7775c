package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/config"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/infrastructure/metrics"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	"github.com/sony/gobreaker/v2"
)

// ErrBrokerUnavailable is returned while the breaker is open.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// BreakerPublisher stops calling a failing broker until it recovers.
type BreakerPublisher struct {
	next    interfaces.EventPublisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

var _ interfaces.EventPublisher = (*BreakerPublisher)(nil)

// NewBreakerPublisher wraps next. m may be nil.
func NewBreakerPublisher(
	next interfaces.EventPublisher, cfg config.Broker, logger logger.Logger, m *metrics.Metrics,
) *BreakerPublisher {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        "broker:" + cfg.Exchange,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("circuit breaker %s changed %s -> %s", name, from, to)
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	}

	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, event *entities.StatusChanged) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrBrokerUnavailable, err)
	}
	return err
}

func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}

// InstrumentedPublisher counts every committed transition handed to it
// and every delivery failure of next.
type InstrumentedPublisher struct {
	next    interfaces.EventPublisher
	metrics *metrics.Metrics
}

var _ interfaces.EventPublisher = (*InstrumentedPublisher)(nil)

func NewInstrumentedPublisher(next interfaces.EventPublisher, m *metrics.Metrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: m}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, event *entities.StatusChanged) error {
	p.metrics.Transitions.WithLabelValues(
		event.Department.String(), event.FromStatus.String(), event.ToStatus.String(),
	).Inc()

	if err := p.next.Publish(ctx, event); err != nil {
		p.metrics.PublishErrors.Inc()
		return err
	}
	return nil
}

func (p *InstrumentedPublisher) Close() error {
	return p.next.Close()
}
