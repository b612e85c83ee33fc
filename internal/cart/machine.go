package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CommitHook runs after every transition with the committed state
type CommitHook func(ctx context.Context, s State)

// Machine is the only owner of one cart's state. All mutation goes through
// its methods; each method reduces one command and then runs the commit
// hooks.
type Machine struct {
	mu       sync.Mutex
	state    State
	hooks    []CommitHook
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Machine
type Option func(*Machine)

// WithClock sets the time source used for line ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithNotifier sets where notices go
func WithNotifier(n notify.Notifier) Option {
	return func(m *Machine) { m.notifier = n }
}

// NewMachine creates a machine holding an empty cart
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		state:    Empty(),
		notifier: notify.Discard,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnCommit registers a hook run after every transition
func (m *Machine) OnCommit(hook CommitHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// State returns a snapshot of the current cart
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Items = append([]models.CartItem{}, m.state.Items...)
	return s
}

// AddToCart adds quantity of product in size and color. Out-of-stock
// products are refused with a notice and false. A quantity below 1 adds one.
func (m *Machine) AddToCart(ctx context.Context, product models.Product, size, color string, quantity int) bool {
	if !product.InStock {
		util.CartRejectionsTotal.WithLabelValues("out_of_stock").Inc()
		m.notifier.Notify(ctx, notify.Notice{
			Kind:        notify.CartOutOfStock,
			Title:       "Out of Stock",
			Description: "This product is currently out of stock.",
			Variant:     notify.VariantDestructive,
			ProductID:   product.ID,
		})
		return false
	}
	if quantity < 1 {
		quantity = 1
	}

	now := m.now().UTC()
	m.dispatch(ctx, AddItem{
		ID:       LineID(product.ID, size, color, now),
		Product:  product,
		Size:     size,
		Color:    color,
		Quantity: quantity,
		AddedAt:  now,
	})

	m.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.CartAdded,
		Title:       "Added to Cart",
		Description: fmt.Sprintf("%s has been added to your cart.", product.Name),
		Variant:     notify.VariantDefault,
		ProductID:   product.ID,
		Quantity:    quantity,
	})
	return true
}

// RemoveFromCart removes the line with itemID. Unknown ids change nothing.
func (m *Machine) RemoveFromCart(ctx context.Context, itemID string) {
	m.dispatch(ctx, RemoveItem{ItemID: itemID})
	m.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.CartRemoved,
		Title:       "Removed from Cart",
		Description: "Item has been removed from your cart.",
		Variant:     notify.VariantDefault,
	})
}

// UpdateQuantity sets the quantity of itemID. A quantity of zero or less
// is a removal.
func (m *Machine) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	if quantity <= 0 {
		m.RemoveFromCart(ctx, itemID)
		return
	}
	m.dispatch(ctx, UpdateQuantity{ItemID: itemID, Quantity: quantity})
}

// ClearCart removes every line
func (m *Machine) ClearCart(ctx context.Context) {
	m.dispatch(ctx, Clear{})
	m.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.CartCleared,
		Title:       "Cart Cleared",
		Description: "All items have been removed from your cart.",
		Variant:     notify.VariantDefault,
	})
}

func (m *Machine) ToggleCart(ctx context.Context) { m.dispatch(ctx, Toggle{}) }
func (m *Machine) OpenCart(ctx context.Context)   { m.dispatch(ctx, Open{}) }
func (m *Machine) CloseCart(ctx context.Context)  { m.dispatch(ctx, Close{}) }

// Load replaces the items with a previously stored list. It is meant to run
// once, before any shopper operation.
func (m *Machine) Load(ctx context.Context, items []models.CartItem) {
	m.dispatch(ctx, Load{Items: items})
}

// Dispatch applies an arbitrary command
func (m *Machine) Dispatch(ctx context.Context, cmd Command) State {
	return m.dispatch(ctx, cmd)
}

func (m *Machine) dispatch(ctx context.Context, cmd Command) State {
	m.mu.Lock()
	m.state = Reduce(m.state, cmd)
	committed := m.state
	committed.Items = append([]models.CartItem{}, m.state.Items...)
	hooks := append([]CommitHook(nil), m.hooks...)
	m.mu.Unlock()

	util.CartOperationsTotal.WithLabelValues(Kind(cmd)).Inc()
	m.logger.Debug("Cart transition",
		zap.String("command", Kind(cmd)),
		zap.Int("lines", len(committed.Items)),
		zap.Int("total_items", committed.TotalItems),
		zap.String("total_price", committed.TotalPrice.StringFixed(2)))

	for _, hook := range hooks {
		hook(ctx, committed)
	}
	return committed
}

// LineID builds a line id from the merge identity and creation time
func LineID(productID, size, color string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%d", productID, size, color, at.UnixMilli())
}
