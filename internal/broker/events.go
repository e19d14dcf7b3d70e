package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing cart events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// CartEventKey is the partition key for a session's events
func CartEventKey(sessionID string) string {
	return fmt.Sprintf("cart-%s", sessionID)
}

// PublishCartEvent publishes a cart event keyed by session
func (ep *EventPublisher) PublishCartEvent(ctx context.Context, event *models.CartEvent) error {
	return ep.producer.PublishEvent(ctx, CartEventKey(event.SessionID), event)
}

// CartEventFunc handles one decoded cart event
type CartEventFunc func(context.Context, *models.CartEvent) error

// EventHandler routes incoming cart events by type
type EventHandler struct {
	handlers map[string]CartEventFunc
	logger   *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{
		handlers: make(map[string]CartEventFunc),
		logger:   util.GetLogger(),
	}
}

// On registers a handler for one event type
func (eh *EventHandler) On(eventType string, handler CartEventFunc) {
	eh.handlers[eventType] = handler
}

// HandleMessage routes messages to the registered handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	handler, ok := eh.handlers[baseEvent.EventType]
	if !ok {
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
		return nil
	}

	var event models.CartEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err)
	}
	return handler(ctx, &event)
}
