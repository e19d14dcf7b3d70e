package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxSessionIDLength = 128

// EventPublisher publishes cart events
type EventPublisher interface {
	PublishCartEvent(ctx context.Context, event *models.CartEvent) error
}

type session struct {
	cart     *cart.Cart
	lastSeen time.Time

	restoreMu sync.Mutex
	restored  bool
}

// CartService owns the carts of all live sessions
type CartService struct {
	catalog   *catalog.Catalog
	store     cart.Store
	events    EventPublisher
	keyPrefix string
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewCartService creates a new cart service. events may be nil.
func NewCartService(
	c *catalog.Catalog,
	store cart.Store,
	events EventPublisher,
	keyPrefix string,
) *CartService {
	return &CartService{
		catalog:   c,
		store:     store,
		events:    events,
		keyPrefix: keyPrefix,
		logger:    util.GetLogger(),
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// NewSessionID generates a fresh session id
func NewSessionID() string {
	return uuid.New().String()
}

// StorageKey returns the persistence key for a session's cart
func (s *CartService) StorageKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// open returns the session's cart, restoring it from the store on first use
func (s *CartService) open(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if sessionID == "" || len(sessionID) > maxSessionIDLength {
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{cart: cart.New(s.StorageKey(sessionID), s.store)}
		s.sessions[sessionID] = sess
		util.CartSessionsActive.Set(float64(len(s.sessions)))
	}
	sess.lastSeen = s.now()
	s.mu.Unlock()

	sess.restoreMu.Lock()
	defer sess.restoreMu.Unlock()
	if !sess.restored {
		if err := s.restore(ctx, sessionID, sess.cart); err != nil {
			return nil, err
		}
		sess.restored = true
	}
	return sess.cart, nil
}

// restore loads the saved cart. A malformed snapshot is discarded and the
// session starts empty. A read failure leaves the session unrestored so the
// next request tries again, so nothing is written before a successful read.
func (s *CartService) restore(ctx context.Context, sessionID string, c *cart.Cart) error {
	ctx, span := util.StartSpan(ctx, "CartService.restore")
	defer span.End()

	err := c.Load(ctx)
	if err == nil {
		return nil
	}
	span.RecordError(err)

	if !errors.Is(err, cart.ErrMalformedSnapshot) {
		util.CartRestoreFailuresTotal.WithLabelValues("store_error").Inc()
		s.logger.Error("Failed to read saved cart",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	util.CartRestoreFailuresTotal.WithLabelValues("malformed").Inc()
	s.logger.Warn("Starting with an empty cart",
		zap.String("session_id", sessionID),
		zap.String("reason", "malformed"),
		zap.Error(err))

	s.publish(ctx, models.EventTypeCartRestoreFailed, sessionID, cart.State{}, func(e *models.CartEvent) {
		e.Reason = "malformed"
	})
	return nil
}

// Summary returns the session's cart and derived totals
func (s *CartService) Summary(ctx context.Context, sessionID string) (*models.CartSummary, error) {
	c, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return summarize(sessionID, c.Items()), nil
}

// AddItem adds quantity units of a catalog product to the session's cart
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.CartSummary, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("cart.quantity", quantity))

	p, ok := s.catalog.ByID(productID)
	if !ok {
		util.CatalogProductNotFoundTotal.Inc()
		return nil, ErrProductNotFound
	}

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity != cart.ClampQuantity(quantity) {
		util.CartQuantityClampedTotal.WithLabelValues("add").Inc()
	}

	start := time.Now()
	line, err := c.Add(ctx, p, quantity)
	util.CartPersistLatency.Observe(time.Since(start).Seconds())
	s.persistFailed(sessionID, err)

	util.CartItemsAddedTotal.Inc()

	items := c.Items()
	s.publish(ctx, models.EventTypeCartItemAdded, sessionID, items, func(e *models.CartEvent) {
		e.ProductID = p.ID
		e.Category = p.Category
		e.Quantity = cart.ClampQuantity(quantity)
		e.LineQuantity = line.Quantity
	})

	s.logger.Debug("Item added to cart",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", p.ID),
		zap.Int("line_quantity", line.Quantity))

	return summarize(sessionID, items), nil
}

// UpdateQuantity sets a line's quantity, clamped to at least 1. Unknown
// lines are ignored.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*models.CartSummary, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("cart.quantity", quantity))

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity != cart.ClampQuantity(quantity) {
		util.CartQuantityClampedTotal.WithLabelValues("update").Inc()
	}

	start := time.Now()
	line, updated, err := c.UpdateQuantity(ctx, productID, quantity)
	util.CartPersistLatency.Observe(time.Since(start).Seconds())
	s.persistFailed(sessionID, err)

	items := c.Items()
	if updated {
		util.CartQuantityUpdatesTotal.Inc()
		s.publish(ctx, models.EventTypeCartItemUpdated, sessionID, items, func(e *models.CartEvent) {
			e.ProductID = productID
			e.Category = line.Category
			e.Quantity = line.Quantity
			e.LineQuantity = line.Quantity
		})
	}

	return summarize(sessionID, items), nil
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*models.CartSummary, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	removed, err := c.Remove(ctx, productID)
	util.CartPersistLatency.Observe(time.Since(start).Seconds())
	s.persistFailed(sessionID, err)

	items := c.Items()
	if removed {
		util.CartItemsRemovedTotal.Inc()
		s.publish(ctx, models.EventTypeCartItemRemoved, sessionID, items, func(e *models.CartEvent) {
			e.ProductID = productID
		})
	}

	return summarize(sessionID, items), nil
}

// ClearCart empties the session's cart and drops its saved snapshot
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*models.CartSummary, error) {
	ctx, span := util.StartSpan(ctx, "CartService.ClearCart")
	defer span.End()

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	hadItems := c.TotalItemCount() > 0
	s.persistFailed(sessionID, c.Clear(ctx))

	if hadItems {
		util.CartClearsTotal.Inc()
		s.publish(ctx, models.EventTypeCartCleared, sessionID, cart.State{}, func(*models.CartEvent) {})
	}

	return summarize(sessionID, c.Items()), nil
}

// EvictIdle drops in-memory carts not touched for maxIdle. Their
// snapshots stay in the store and are restored on the next request.
func (s *CartService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	util.CartSessionsActive.Set(float64(len(s.sessions)))
	return evicted
}

// ActiveSessions returns the number of carts held in memory
func (s *CartService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// persistFailed records a failed snapshot write. The in-memory cart stays
// authoritative and the next mutation rewrites the whole snapshot.
func (s *CartService) persistFailed(sessionID string, err error) {
	if err == nil {
		return
	}
	util.CartPersistFailuresTotal.Inc()
	s.logger.Error("Failed to persist cart",
		zap.String("session_id", sessionID),
		zap.Error(err))
}

func (s *CartService) publish(ctx context.Context, eventType, sessionID string, items cart.State, fill func(*models.CartEvent)) {
	if s.events == nil {
		return
	}

	event := &models.CartEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType,
			Timestamp: s.now(),
		},
		SessionID:  sessionID,
		TotalItems: items.TotalItemCount(),
		Subtotal:   items.Subtotal(),
	}
	fill(event)

	if err := s.events.PublishCartEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish cart event",
			zap.String("type", eventType),
			zap.Error(err))
	}
}

func summarize(sessionID string, items cart.State) *models.CartSummary {
	return &models.CartSummary{
		SessionID:  sessionID,
		Items:      []models.CartLineItem(items),
		TotalItems: items.TotalItemCount(),
		Subtotal:   items.Subtotal(),
		Shipping:   models.ShippingPending,
	}
}
