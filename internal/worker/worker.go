package worker

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// dedupeWindow is how long a processed event id is remembered
const dedupeWindow = 24 * time.Hour

// ActivityStore keeps the storefront activity counters
type ActivityStore interface {
	IncrActivity(ctx context.Context, eventType string, by int64) error
	MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	UnmarkEventProcessed(ctx context.Context, eventID string) error
}

// ActivityWorker folds the storefront event stream into activity counters
// for the admin overview
type ActivityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        ActivityStore
	logger       *zap.Logger
}

// NewActivityWorker creates a new activity worker
func NewActivityWorker(consumer *broker.Consumer, store ActivityStore) *ActivityWorker {
	w := &ActivityWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		store:        store,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnStorefrontEvent(w.HandleStorefrontEvent)
	w.eventHandler.OnOrderPlaced(w.HandleOrderPlaced)
	return w
}

// Start starts the worker
func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ActivityWorker) Stop() error {
	w.logger.Info("Stopping activity worker")
	return w.consumer.Close()
}

func (w *ActivityWorker) HandleStorefrontEvent(ctx context.Context, event *models.StorefrontEvent) error {
	by := int64(1)
	if event.EventType == models.EventTypeCartItemAdded && event.Quantity > 0 {
		by = int64(event.Quantity)
	}
	return w.count(ctx, event.BaseEvent, by)
}

func (w *ActivityWorker) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return w.count(ctx, event.BaseEvent, 1)
}

func (w *ActivityWorker) count(ctx context.Context, event models.BaseEvent, by int64) error {
	if event.EventID != "" {
		fresh, err := w.store.MarkEventProcessed(ctx, event.EventID, dedupeWindow)
		if err != nil {
			return fmt.Errorf("failed to check event %s: %w", event.EventID, err)
		}
		if !fresh {
			w.logger.Debug("Skipping duplicate event", zap.String("event_id", event.EventID))
			return nil
		}
	}

	if err := w.store.IncrActivity(ctx, event.EventType, by); err != nil {
		// release the marker so the redelivered message is counted
		if event.EventID != "" {
			if uerr := w.store.UnmarkEventProcessed(ctx, event.EventID); uerr != nil {
				w.logger.Error("Failed to release event marker", zap.String("event_id", event.EventID), zap.Error(uerr))
			}
		}
		return fmt.Errorf("failed to count %s: %w", event.EventType, err)
	}
	return nil
}
