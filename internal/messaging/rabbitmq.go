// Package messaging publishes domain events to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const connectAttempts = 5

// Publisher sends a JSON body under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type connection interface {
	Channel() (channel, error)
	Close() error
}

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(url string) (connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Second * time.Duration(math.Pow(2, float64(attempt)))
}

// RabbitMQ owns a connection and channel bound to one topic exchange.
type RabbitMQ struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     connection
	ch       channel
	logger   *zap.Logger

	dial    func(url string) (connection, error)
	backoff func(attempt int) time.Duration
}

// NewRabbitMQ dials url with exponential backoff and declares the exchange.
func NewRabbitMQ(ctx context.Context, url, exchange string, logger *zap.Logger) (*RabbitMQ, error) {
	r := newRabbitMQ(url, exchange, logger, dialAMQP)
	if err := r.connect(ctx, connectAttempts); err != nil {
		return nil, err
	}
	return r, nil
}

func newRabbitMQ(url, exchange string, logger *zap.Logger, dial func(string) (connection, error)) *RabbitMQ {
	return &RabbitMQ{
		url:      url,
		exchange: exchange,
		logger:   logger,
		dial:     dial,
		backoff:  exponentialBackoff,
	}
}

// connect dials up to attempts times, sleeping between failures. Callers hold mu
// or own r exclusively.
func (r *RabbitMQ) connect(ctx context.Context, attempts int) error {
	var err error
	for i := 1; i <= attempts; i++ {
		var conn connection
		conn, err = r.dial(r.url)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr != nil {
				_ = conn.Close()
				return fmt.Errorf("open channel: %w", chErr)
			}
			if declErr := ch.ExchangeDeclare(r.exchange, "topic", true, false, false, false, nil); declErr != nil {
				_ = ch.Close()
				_ = conn.Close()
				return fmt.Errorf("declare exchange: %w", declErr)
			}
			r.conn, r.ch = conn, ch
			r.logger.Info("connected to rabbitmq", zap.String("exchange", r.exchange))
			return nil
		}

		r.logger.Warn("rabbitmq connect attempt failed", zap.Int("attempt", i), zap.Error(err))
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(i)):
		}
	}
	if attempts == 1 {
		return fmt.Errorf("reconnect to rabbitmq: %w", err)
	}
	return fmt.Errorf("connect to rabbitmq after retries: %w", err)
}

// release closes the current channel and connection, ignoring errors from a
// broker that already dropped them.
func (r *RabbitMQ) release() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
	r.conn, r.ch = nil, nil
}

// Publish sends body to the exchange. A closed channel triggers a single
// reconnect attempt without backoff; a failed attempt is returned to the caller.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch == nil || r.ch.IsClosed() {
		r.release()
		if err := r.connect(ctx, 1); err != nil {
			return err
		}
	}

	err := r.ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close releases the channel and connection.
func (r *RabbitMQ) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.ch != nil {
		errs = append(errs, r.ch.Close())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	r.conn, r.ch = nil, nil
	return errors.Join(errs...)
}
