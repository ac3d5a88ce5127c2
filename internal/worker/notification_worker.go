package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/messaging"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/service"
)

// Broker is a publisher owning a connection.
type Broker interface {
	messaging.Publisher
	Close() error
}

// DialFunc connects to the broker.
type DialFunc func(ctx context.Context, url, exchange string, logger *zap.Logger) (Broker, error)

// DialRabbitMQ is the production DialFunc.
func DialRabbitMQ(ctx context.Context, url, exchange string, logger *zap.Logger) (Broker, error) {
	return messaging.NewRabbitMQ(ctx, url, exchange, logger)
}

// NotificationWorker registers notification handlers and attaches the broker
// publisher once the connection is up, without blocking startup.
type NotificationWorker struct {
	notifications *service.NotificationService
	cfg           config.RabbitMQConfig
	dial          DialFunc
	logger        *zap.Logger

	mu     sync.Mutex
	broker Broker
	done   chan struct{}
}

// NewNotificationWorker builds the worker. A nil dial uses DialRabbitMQ.
func NewNotificationWorker(notifications *service.NotificationService, cfg config.RabbitMQConfig, dial DialFunc, logger *zap.Logger) *NotificationWorker {
	if dial == nil {
		dial = DialRabbitMQ
	}
	return &NotificationWorker{
		notifications: notifications,
		cfg:           cfg,
		dial:          dial,
		logger:        logger,
		done:          make(chan struct{}),
	}
}

// Start registers handlers and, when a broker URL is configured, connects in
// the background. The returned channel closes once connection handling ends.
func (w *NotificationWorker) Start(ctx context.Context) <-chan struct{} {
	if w.notifications == nil {
		close(w.done)
		return w.done
	}
	w.notifications.RegisterHandlers()

	if w.cfg.URL == "" {
		w.logger.Info("RABBITMQ_URL not provided; notifications are logged only")
		close(w.done)
		return w.done
	}

	go func() {
		defer close(w.done)
		broker, err := w.dial(ctx, w.cfg.URL, w.cfg.Exchange, w.logger)
		if err != nil {
			w.logger.Error("notification broker unavailable", zap.Error(err))
			return
		}
		w.mu.Lock()
		w.broker = broker
		w.mu.Unlock()
		w.notifications.SetPublisher(broker)
	}()
	return w.done
}

// Stop detaches and closes the broker.
func (w *NotificationWorker) Stop() error {
	w.mu.Lock()
	broker := w.broker
	w.broker = nil
	w.mu.Unlock()

	if broker == nil {
		return nil
	}
	w.notifications.SetPublisher(nil)
	return broker.Close()
}
