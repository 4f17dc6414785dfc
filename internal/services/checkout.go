package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/models"
	"shopfront/internal/obs"
	"shopfront/internal/session"

	"go.uber.org/zap"
)

// OrderStore persists completed orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	CountOrders(ctx context.Context) (int, error)
}

// Notifier is told about every persisted order. Implementations must not block the caller.
type Notifier interface {
	NotifyOrderConfirmed(order models.Order)
}

// CheckoutService, sepetten siparişe geçiş akışını yönetir.
type CheckoutService struct {
	cart     *CartService
	orders   OrderStore
	notifier Notifier
	now      func() time.Time
}

// NewCheckoutService wires the checkout flow.
func NewCheckoutService(cart *CartService, orders OrderStore, notifier Notifier) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		orders:   orders,
		notifier: notifier,
		now:      time.Now,
	}
}

// View aggregates the session cart without changing the session.
func (cs *CheckoutService) View(ctx context.Context, sess *session.Session) (*models.CartSummary, error) {
	return cs.cart.Aggregate(ctx, sess.Cart)
}

// Submit persists an order for the session cart, hands it to the notifier and
// remembers it as the session's recent order. The cart itself is left alone
// until Complete runs.
func (cs *CheckoutService) Submit(ctx context.Context, sess *session.Session, email string) (*models.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	summary, err := cs.cart.Aggregate(ctx, sess.Cart)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Email:            email,
		TimestampCreated: cs.now(),
		Products:         summary.Products,
	}
	if err := cs.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	obs.Logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int("lines", len(order.Products)),
		zap.String("total", summary.Total.StringFixed(2)))

	if cs.notifier != nil {
		cs.notifier.NotifyOrderConfirmed(*order)
	}

	id := order.ID
	sess.RecentOrderID = &id
	return order, nil
}

// Complete consumes the session's recent order and empties the cart.
// Without a pending order it returns ErrNoPendingOrder and changes nothing.
// If the order no longer exists the pending id is dropped, the cart is kept
// and ErrNotFound is returned.
func (cs *CheckoutService) Complete(ctx context.Context, sess *session.Session) (*models.Order, error) {
	if sess.RecentOrderID == nil {
		return nil, ErrNoPendingOrder
	}
	id := *sess.RecentOrderID

	order, err := cs.orders.GetOrderByID(ctx, id)
	if isNotFound(err) {
		sess.RecentOrderID = nil
		obs.Logger.Warn("recent order missing", zap.Int64("order_id", id))
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}

	sess.RecentOrderID = nil
	sess.Cart = []string{}
	return order, nil
}

// OrderCount returns how many orders have been placed.
func (cs *CheckoutService) OrderCount(ctx context.Context) (int, error) {
	n, err := cs.orders.CountOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
