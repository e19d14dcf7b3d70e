package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemAddedRecordsDemand(t *testing.T) {
	w := NewCartActivityWorker(nil)
	demand := util.CartProductDemandTotal.WithLabelValues("Photography")
	before := counterValue(t, demand)

	value, err := json.Marshal(&models.CartEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypeCartItemAdded},
		SessionID: "s1",
		ProductID: 7,
		Category:  "Photography",
		Quantity:  3,
	})
	require.NoError(t, err)

	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), kafka.Message{Value: value}))
	assert.Equal(t, before+3, counterValue(t, demand))
}

func TestRemovedEventCounted(t *testing.T) {
	w := NewCartActivityWorker(nil)
	consumed := util.CartEventsConsumedTotal.WithLabelValues(models.EventTypeCartItemRemoved)
	before := counterValue(t, consumed)

	value, err := json.Marshal(&models.CartEvent{
		BaseEvent: models.BaseEvent{EventID: "e2", EventType: models.EventTypeCartItemRemoved},
		SessionID: "s1",
		ProductID: 7,
	})
	require.NoError(t, err)

	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), kafka.Message{Value: value}))
	assert.Equal(t, before+1, counterValue(t, consumed))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

type fakeEvictor struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (f *fakeEvictor) EvictIdle(maxIdle time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, maxIdle)
	return 2
}

func (f *fakeEvictor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSessionJanitorRunOnce(t *testing.T) {
	ev := &fakeEvictor{}
	j := NewSessionJanitor(ev, 30*time.Minute)

	assert.Equal(t, 15*time.Minute, j.interval)
	assert.Equal(t, 2, j.RunOnce())
	assert.Equal(t, []time.Duration{30 * time.Minute}, ev.calls)
}

func TestSessionJanitorStopsOnCancel(t *testing.T) {
	ev := &fakeEvictor{}
	j := NewSessionJanitor(ev, time.Millisecond)
	assert.Equal(t, time.Second, j.interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
	assert.Zero(t, ev.count())
}
