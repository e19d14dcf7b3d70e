package worker

import (
	"context"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CartActivityWorker turns cart events into demand metrics
type CartActivityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewCartActivityWorker creates a new cart activity worker
func NewCartActivityWorker(consumer *broker.Consumer) *CartActivityWorker {
	w := &CartActivityWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger(),
	}

	w.eventHandler.On(models.EventTypeCartItemAdded, w.handleItemAdded)
	w.eventHandler.On(models.EventTypeCartItemUpdated, w.count)
	w.eventHandler.On(models.EventTypeCartItemRemoved, w.count)
	w.eventHandler.On(models.EventTypeCartCleared, w.count)
	w.eventHandler.On(models.EventTypeCartRestoreFailed, w.handleRestoreFailed)

	return w
}

// Start starts the worker
func (w *CartActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cart activity worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CartActivityWorker) Stop() error {
	w.logger.Info("Stopping cart activity worker")
	return w.consumer.Close()
}

func (w *CartActivityWorker) count(_ context.Context, event *models.CartEvent) error {
	util.CartEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	return nil
}

func (w *CartActivityWorker) handleItemAdded(ctx context.Context, event *models.CartEvent) error {
	_ = w.count(ctx, event)

	category := event.Category
	if category == "" {
		category = "unknown"
	}
	util.CartProductDemandTotal.WithLabelValues(category).Add(float64(event.Quantity))
	return nil
}

func (w *CartActivityWorker) handleRestoreFailed(ctx context.Context, event *models.CartEvent) error {
	_ = w.count(ctx, event)

	w.logger.Warn("Cart snapshot discarded",
		zap.String("session_id", event.SessionID),
		zap.String("reason", event.Reason),
		zap.Time("at", event.Timestamp))
	return nil
}

// Evictor drops idle in-memory carts
type Evictor interface {
	EvictIdle(maxIdle time.Duration) int
}

// SessionJanitor periodically evicts idle carts from memory
type SessionJanitor struct {
	evictor  Evictor
	maxIdle  time.Duration
	interval time.Duration
	logger   *zap.Logger
}

// NewSessionJanitor creates a janitor that runs every maxIdle/2
func NewSessionJanitor(evictor Evictor, maxIdle time.Duration) *SessionJanitor {
	interval := maxIdle / 2
	if interval < time.Second {
		interval = time.Second
	}
	return &SessionJanitor{
		evictor:  evictor,
		maxIdle:  maxIdle,
		interval: interval,
		logger:   util.GetLogger(),
	}
}

// Start runs until ctx is cancelled
func (j *SessionJanitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce performs a single eviction pass
func (j *SessionJanitor) RunOnce() int {
	evicted := j.evictor.EvictIdle(j.maxIdle)
	if evicted > 0 {
		j.logger.Debug("Evicted idle carts", zap.Int("count", evicted))
	}
	return evicted
}
