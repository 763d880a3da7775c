package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KretovDmitry/order-workflow/internal/application/interfaces"
	"github.com/KretovDmitry/order-workflow/internal/config"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes status events to a topic exchange.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	timeout  time.Duration
	logger   logger.Logger
	mu       sync.Mutex
}

var _ interfaces.EventPublisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher dials the broker and declares the exchange.
func NewRabbitMQPublisher(cfg config.Broker, logger logger.Logger) (*RabbitMQPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("empty broker url")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Infof("RabbitMQ publisher connected to exchange %q", cfg.Exchange)

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		timeout:  cfg.Timeout,
		logger:   logger,
	}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event *entities.StatusChanged) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,         // exchange
		event.RoutingKey(), // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
	}

	p.logger.With(ctx, "routing_key", event.RoutingKey(), "event_id", event.ID.String()).
		Debug("status event published")

	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warnf("close channel: %s", err)
		}
	}

	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}

// NoopPublisher only logs events. Used when no broker is configured.
type NoopPublisher struct {
	logger logger.Logger
}

var _ interfaces.EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger logger.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, event *entities.StatusChanged) error {
	p.logger.With(ctx, "routing_key", event.RoutingKey(), "event_id", event.ID.String()).
		Debug("noop publish")
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
