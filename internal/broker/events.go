package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter is what EventPublisher writes through; Producer implements it
type EventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// noticeEvents maps the notices worth streaming to their event types
var noticeEvents = map[notify.Kind]string{
	notify.CartAdded:       models.EventTypeCartItemAdded,
	notify.CartRemoved:     models.EventTypeCartItemRemoved,
	notify.CartCleared:     models.EventTypeCartCleared,
	notify.CartOutOfStock:  models.EventTypeCartRejected,
	notify.WishlistAdded:   models.EventTypeWishlistItemAdded,
	notify.WishlistRemoved: models.EventTypeWishlistItemRemoved,
	notify.WishlistCleared: models.EventTypeWishlistCleared,
	notify.LoginSucceeded:  models.EventTypeUserLoggedIn,
	notify.LoginFailed:     models.EventTypeUserLoginFailed,
	notify.Registered:      models.EventTypeUserRegistered,
}

// EventPublisher handles publishing storefront events
type EventPublisher struct {
	writer EventWriter
	now    func() time.Time
	logger *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter) *EventPublisher {
	return &EventPublisher{writer: writer, now: time.Now, logger: util.GetLogger()}
}

// Notify streams a session notice. It implements notify.Notifier, so
// publish failures are logged rather than returned.
func (ep *EventPublisher) Notify(ctx context.Context, n notify.Notice) {
	eventType, ok := noticeEvents[n.Kind]
	if !ok {
		return
	}

	sid := notify.SessionFromContext(ctx)
	event := &models.StorefrontEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType,
			Timestamp: ep.now().UTC(),
		},
		SessionID: sid,
		Title:     n.Title,
		Message:   n.Description,
		ProductID: n.ProductID,
		Quantity:  n.Quantity,
	}

	if err := ep.writer.PublishEvent(ctx, sessionKey(sid), event); err != nil {
		ep.logger.Error("Failed to publish storefront event",
			zap.String("event_type", eventType),
			zap.String("session_id", sid),
			zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(eventType).Inc()
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if err := ep.writer.PublishEvent(ctx, sessionKey(event.SessionID), event); err != nil {
		return err
	}
	util.EventsPublishedTotal.WithLabelValues(event.EventType).Inc()
	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// EventHandler routes incoming events by type
type EventHandler struct {
	onStorefront  func(context.Context, *models.StorefrontEvent) error
	onOrderPlaced func(context.Context, *models.OrderPlacedEvent) error
	logger        *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnStorefrontEvent registers a handler for cart, wishlist and auth events
func (eh *EventHandler) OnStorefrontEvent(handler func(context.Context, *models.StorefrontEvent) error) {
	eh.onStorefront = handler
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeCartItemAdded, models.EventTypeCartItemRemoved, models.EventTypeCartCleared,
		models.EventTypeCartRejected, models.EventTypeWishlistItemAdded, models.EventTypeWishlistItemRemoved,
		models.EventTypeWishlistCleared, models.EventTypeUserLoggedIn, models.EventTypeUserLoginFailed,
		models.EventTypeUserRegistered:
		if eh.onStorefront != nil {
			var event models.StorefrontEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal storefront event: %w", err)
			}
			return eh.onStorefront(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
