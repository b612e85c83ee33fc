// Package order turns a session's cart into a placed order.
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart
var ErrEmptyCart = errors.New("order: cart is empty")

// DeliveryWindow is added to the order time for the estimated delivery date
const DeliveryWindow = 7 * 24 * time.Hour

// Repository stores placed orders
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	Stats(ctx context.Context) (Stats, error)
}

// Publisher announces placed orders
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// Cart is the part of cart.Machine checkout needs
type Cart interface {
	State() cart.State
	Dispatch(ctx context.Context, cmd cart.Command) cart.State
}

// Stats aggregates every placed order
type Stats struct {
	Orders  int             `json:"orders" db:"orders"`
	Revenue decimal.Decimal `json:"revenue" db:"revenue"`
}

// Request is the checkout form
type Request struct {
	ShippingAddress models.Address  `json:"shippingAddress" binding:"required"`
	BillingAddress  *models.Address `json:"billingAddress,omitempty"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
}

// Service places orders
type Service struct {
	repo      Repository
	publisher Publisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates an order service. publisher may be nil.
func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		logger:    util.GetLogger(),
	}
}

// PlaceOrder prices the cart, stores the order and empties the cart
func (s *Service) PlaceOrder(ctx context.Context, n notify.Notifier, user models.User, c Cart, req Request) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	state := c.State()
	if len(state.Items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		n.Notify(ctx, notify.Notice{
			Kind:        notify.OrderRejected,
			Title:       "Cart is empty",
			Description: "Add something to your cart before checking out.",
			Variant:     notify.VariantDestructive,
		})
		return nil, ErrEmptyCart
	}

	summary := state.Summarize()
	now := s.now().UTC()
	delivery := now.Add(DeliveryWindow)

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order := &models.Order{
		ID:                OrderID(now),
		UserID:            user.ID,
		Items:             state.Items,
		ShippingAddress:   req.ShippingAddress,
		BillingAddress:    billing,
		Subtotal:          summary.Subtotal,
		Shipping:          summary.Shipping,
		Tax:               summary.Tax,
		Discount:          decimal.Zero,
		TotalAmount:       summary.Total,
		Status:            models.OrderStatusPending,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     models.PaymentStatusPending,
		TrackingNumber:    TrackingNumber(),
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: &delivery,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	c.Dispatch(ctx, cart.Clear{})

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(order.Items)))

	n.Notify(ctx, notify.Notice{
		Kind:        notify.OrderPlaced,
		Title:       "Order Placed",
		Description: fmt.Sprintf("Your order %s has been placed.", order.ID),
		Variant:     notify.VariantDefault,
	})

	if s.publisher != nil {
		event := &models.OrderPlacedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderPlaced,
				Timestamp: now,
			},
			SessionID:   notify.SessionFromContext(ctx),
			OrderID:     order.ID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount.StringFixed(2),
			ItemCount:   state.TotalItems,
		}
		if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderPlaced event", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	return order, nil
}

// GetUserOrders lists a user's orders, newest first
func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Stats reports order count and revenue
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// OrderID builds an order id from the placement time and a random suffix, so
// orders placed in the same millisecond stay distinct.
func OrderID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("order_%d_%s", at.UnixMilli(), suffix[:8])
}

// TrackingNumber returns "TRK" followed by nine uppercase alphanumerics
func TrackingNumber() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TRK" + strings.ToUpper(id[:9])
}

// Memory is an in-process Repository
type Memory struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == order.ID {
			return fmt.Errorf("order %s already exists", order.ID)
		}
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *Memory) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Stats{Orders: len(m.orders), Revenue: decimal.Zero}
	for _, o := range m.orders {
		st.Revenue = st.Revenue.Add(o.TotalAmount)
	}
	return st, nil
}
