package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestHandleMessageRoutesByType(t *testing.T) {
	eh := NewEventHandler()

	var added, removed []*models.CartEvent
	eh.On(models.EventTypeCartItemAdded, func(_ context.Context, e *models.CartEvent) error {
		added = append(added, e)
		return nil
	})
	eh.On(models.EventTypeCartItemRemoved, func(_ context.Context, e *models.CartEvent) error {
		removed = append(removed, e)
		return nil
	})

	event := &models.CartEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeCartItemAdded,
			Timestamp: time.Now(),
		},
		SessionID:    "s-1",
		ProductID:    1,
		Category:     "Audio",
		Quantity:     2,
		LineQuantity: 3,
		TotalItems:   3,
		Subtotal:     decimal.NewFromInt(897),
	}

	require.NoError(t, eh.HandleMessage(context.Background(), message(t, event)))
	require.Len(t, added, 1)
	assert.Empty(t, removed)
	assert.Equal(t, "s-1", added[0].SessionID)
	assert.Equal(t, 2, added[0].Quantity)
	assert.True(t, added[0].Subtotal.Equal(decimal.NewFromInt(897)))
}

func TestHandleMessageIgnoresUnknownTypes(t *testing.T) {
	eh := NewEventHandler()
	msg := message(t, models.BaseEvent{EventID: "x", EventType: "ORDER_CREATED"})
	assert.NoError(t, eh.HandleMessage(context.Background(), msg))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()
	assert.Error(t, eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")}))
}

func TestCartEventKey(t *testing.T) {
	assert.Equal(t, "cart-abc", CartEventKey("abc"))
}
