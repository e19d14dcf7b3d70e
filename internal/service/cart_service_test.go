package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.CartEvent
	err    error
}

func (r *recordingPublisher) PublishCartEvent(_ context.Context, event *models.CartEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

// flakyStore fails the next loadFailures reads, then behaves like the
// wrapped store. saveErr fails every write.
type flakyStore struct {
	*cart.MemoryStore

	mu           sync.Mutex
	loadFailures int
	saveErr      error
}

func (f *flakyStore) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	if f.loadFailures > 0 {
		f.loadFailures--
		f.mu.Unlock()
		return nil, errors.New("connection refused")
	}
	f.mu.Unlock()
	return f.MemoryStore.Load(ctx, key)
}

func (f *flakyStore) Save(ctx context.Context, key string, blob []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, key, blob)
}

func newTestCartService(t *testing.T, store cart.Store, events EventPublisher) *CartService {
	t.Helper()
	c, err := catalog.New(catalog.Seed())
	require.NoError(t, err)
	return NewCartService(c, store, events, "cart")
}

func TestCartScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t, cart.NewMemoryStore(), nil)

	summary, err := svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, "299.00", summary.Subtotal.StringFixed(2))
	assert.Equal(t, models.ShippingPending, summary.Shipping)

	summary, err = svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, "598.00", summary.Subtotal.StringFixed(2))

	summary, err = svc.UpdateQuantity(ctx, "s1", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "1495.00", summary.Subtotal.StringFixed(2))

	summary, err = svc.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalItems)
	assert.Equal(t, "0.00", summary.Subtotal.StringFixed(2))
	assert.Empty(t, summary.Items)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := newTestCartService(t, cart.NewMemoryStore(), nil)

	_, err := svc.AddItem(context.Background(), "s1", 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInvalidSession(t *testing.T) {
	svc := newTestCartService(t, cart.NewMemoryStore(), nil)

	_, err := svc.Summary(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidSession)

	long := make([]byte, maxSessionIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.AddItem(context.Background(), string(long), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t, cart.NewMemoryStore(), nil)

	_, err := svc.AddItem(ctx, "alice", 1, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "bob", 7, 1)
	require.NoError(t, err)

	alice, err := svc.Summary(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice.Items, 1)
	assert.Equal(t, int64(1), alice.Items[0].ID)

	bob, err := svc.Summary(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob.Items, 1)
	assert.Equal(t, int64(7), bob.Items[0].ID)
}

func TestEventsPublished(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{}
	svc := newTestCartService(t, cart.NewMemoryStore(), events)

	_, _ = svc.AddItem(ctx, "s1", 4, 0)
	_, _ = svc.UpdateQuantity(ctx, "s1", 4, 3)
	_, _ = svc.UpdateQuantity(ctx, "s1", 999, 3)
	_, _ = svc.RemoveItem(ctx, "s1", 4)
	_, _ = svc.RemoveItem(ctx, "s1", 4)

	assert.Equal(t, []string{
		models.EventTypeCartItemAdded,
		models.EventTypeCartItemUpdated,
		models.EventTypeCartItemRemoved,
	}, events.types())

	added := events.events[0]
	assert.Equal(t, "s1", added.SessionID)
	assert.Equal(t, "Accessories", added.Category)
	assert.Equal(t, 1, added.Quantity)
	assert.Equal(t, 1, added.LineQuantity)
	assert.NotEmpty(t, added.EventID)

	updated := events.events[1]
	assert.Equal(t, 3, updated.TotalItems)
	assert.Equal(t, "177", updated.Subtotal.String())
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	svc := newTestCartService(t, cart.NewMemoryStore(), &recordingPublisher{err: errors.New("broker down")})

	summary, err := svc.AddItem(context.Background(), "s1", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalItems)
}

func TestRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()

	first := newTestCartService(t, store, nil)
	_, err := first.AddItem(ctx, "s1", 3, 2)
	require.NoError(t, err)

	second := newTestCartService(t, store, nil)
	summary, err := second.Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, "2598", summary.Subtotal.String())
}

func TestRestoreMalformedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "cart:s1", []byte(`{"items": "nope"}`)))

	events := &recordingPublisher{}
	svc := newTestCartService(t, store, events)

	summary, err := svc.Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	require.Len(t, events.events, 1)
	assert.Equal(t, models.EventTypeCartRestoreFailed, events.events[0].EventType)
	assert.Equal(t, "malformed", events.events[0].Reason)

	summary, err = svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalItems)
}

func TestFailedReadKeepsSavedCart(t *testing.T) {
	ctx := context.Background()
	mem := cart.NewMemoryStore()

	seed := newTestCartService(t, mem, nil)
	_, err := seed.AddItem(ctx, "s1", 2, 1)
	require.NoError(t, err)
	_, err = seed.AddItem(ctx, "s1", 3, 1)
	require.NoError(t, err)
	_, err = seed.AddItem(ctx, "s1", 5, 1)
	require.NoError(t, err)

	store := &flakyStore{MemoryStore: mem, loadFailures: 1}
	svc := newTestCartService(t, store, nil)

	_, err = svc.AddItem(ctx, "s1", 1, 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	saved, err := cart.Decode(mustLoad(t, mem, "cart:s1"))
	require.NoError(t, err)
	assert.Equal(t, 3, saved.TotalItemCount())

	summary, err := svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalItems)

	saved, err = cart.Decode(mustLoad(t, mem, "cart:s1"))
	require.NoError(t, err)
	require.Len(t, saved, 4)
	assert.Equal(t, int64(2), saved[0].ID)
	assert.Equal(t, int64(1), saved[3].ID)
}

func TestFailedWriteDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: cart.NewMemoryStore(), saveErr: errors.New("connection refused")}
	svc := newTestCartService(t, store, nil)

	summary, err := svc.AddItem(ctx, "s1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalItems)

	summary, err = svc.Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalItems)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	events := &recordingPublisher{}
	svc := newTestCartService(t, store, events)

	_, err := svc.AddItem(ctx, "s1", 1, 2)
	require.NoError(t, err)

	summary, err := svc.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.True(t, summary.Subtotal.IsZero())

	_, err = store.Load(ctx, "cart:s1")
	assert.ErrorIs(t, err, cart.ErrNotFound)

	_, err = svc.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventTypeCartItemAdded, models.EventTypeCartCleared}, events.types())
}

func mustLoad(t *testing.T, store cart.Store, key string) []byte {
	t.Helper()
	blob, err := store.Load(context.Background(), key)
	require.NoError(t, err)
	return blob
}

func TestEvictIdle(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	svc := newTestCartService(t, store, nil)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.AddItem(ctx, "old", 1, 1)
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = svc.AddItem(ctx, "fresh", 2, 1)
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, svc.EvictIdle(30*time.Minute))
	assert.Equal(t, 1, svc.ActiveSessions())

	summary, err := svc.Summary(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, 2, svc.ActiveSessions())
}

func TestConcurrentAddsOnOneSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(t, cart.NewMemoryStore(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddItem(ctx, "s1", 1, 1)
		}()
	}
	wg.Wait()

	summary, err := svc.Summary(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 50, summary.TotalItems)
}
