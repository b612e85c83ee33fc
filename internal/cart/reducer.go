// Package cart owns the shopping cart. State changes are expressed as
// commands reduced by the pure Reduce function; Machine wraps it with id
// generation, notices and commit hooks.
package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-service/internal/models"
)

// State is the cart as seen by the shopper. TotalItems and TotalPrice are
// always the fold over Items; Reduce re-derives them on every transition.
type State struct {
	Items      []models.CartItem `json:"items"`
	IsOpen     bool              `json:"isOpen"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

// Empty returns a closed cart with no items
func Empty() State {
	return State{Items: []models.CartItem{}, TotalPrice: decimal.Zero}
}

// Command is one of AddItem, RemoveItem, UpdateQuantity, Clear, Toggle,
// Open, Close or Load.
type Command interface {
	kind() string
}

// AddItem merges Quantity into the line matching (product, size, color) or
// appends a new line with ID and AddedAt.
type AddItem struct {
	ID       string
	Product  models.Product
	Size     string
	Color    string
	Quantity int
	AddedAt  time.Time
}

// RemoveItem drops the line with ItemID
type RemoveItem struct {
	ItemID string
}

// UpdateQuantity sets the quantity of ItemID; zero or less removes the line
type UpdateQuantity struct {
	ItemID   string
	Quantity int
}

// Clear empties the cart
type Clear struct{}

// Toggle flips the visibility flag
type Toggle struct{}

// Open shows the cart
type Open struct{}

// Close hides the cart
type Close struct{}

// Load replaces the items with a stored list
type Load struct {
	Items []models.CartItem
}

func (AddItem) kind() string        { return "add" }
func (RemoveItem) kind() string     { return "remove" }
func (UpdateQuantity) kind() string { return "update_quantity" }
func (Clear) kind() string          { return "clear" }
func (Toggle) kind() string         { return "toggle" }
func (Open) kind() string           { return "open" }
func (Close) kind() string          { return "close" }
func (Load) kind() string           { return "load" }

// Kind names a command for logs and metrics
func Kind(cmd Command) string {
	return cmd.kind()
}

// Reduce returns the state after applying cmd. It never modifies s.
func Reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		if c.Quantity <= 0 {
			return s
		}
		items := cloneItems(s.Items)
		if i := indexOf(items, c.Product.ID, c.Size, c.Color); i >= 0 {
			items[i].Quantity += c.Quantity
		} else {
			items = append(items, models.CartItem{
				ID:       c.ID,
				Product:  c.Product,
				Size:     c.Size,
				Color:    c.Color,
				Quantity: c.Quantity,
				AddedAt:  c.AddedAt,
			})
		}
		return withItems(s, items)

	case RemoveItem:
		items := make([]models.CartItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.ID != c.ItemID {
				items = append(items, item)
			}
		}
		return withItems(s, items)

	case UpdateQuantity:
		if c.Quantity <= 0 {
			return Reduce(s, RemoveItem{ItemID: c.ItemID})
		}
		items := cloneItems(s.Items)
		for i := range items {
			if items[i].ID == c.ItemID {
				items[i].Quantity = c.Quantity
			}
		}
		return withItems(s, items)

	case Clear:
		return withItems(s, []models.CartItem{})

	case Toggle:
		s.IsOpen = !s.IsOpen
		return s

	case Open:
		s.IsOpen = true
		return s

	case Close:
		s.IsOpen = false
		return s

	case Load:
		items := make([]models.CartItem, 0, len(c.Items))
		for _, item := range c.Items {
			if item.Quantity >= 1 {
				items = append(items, item)
			}
		}
		return withItems(s, items)
	}

	return s
}

// FindItem returns the line matching (productID, size, color)
func (s State) FindItem(productID, size, color string) (models.CartItem, bool) {
	if i := indexOf(s.Items, productID, size, color); i >= 0 {
		return s.Items[i], true
	}
	return models.CartItem{}, false
}

// Item returns the line with id
func (s State) Item(id string) (models.CartItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.CartItem{}, false
}

// Totals folds items into the item count and captured-price total
func Totals(items []models.CartItem) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.LineTotal())
	}
	return count, total
}

func withItems(s State, items []models.CartItem) State {
	s.Items = items
	s.TotalItems, s.TotalPrice = Totals(items)
	return s
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}

func indexOf(items []models.CartItem, productID, size, color string) int {
	for i, item := range items {
		if item.Product.ID == productID && item.Size == size && item.Color == color {
			return i
		}
	}
	return -1
}
