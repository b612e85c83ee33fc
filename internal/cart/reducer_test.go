package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func product(id, price string, inStock bool) models.Product {
	return models.Product{
		ID:      id,
		Name:    "Product " + id,
		Price:   decimal.RequireFromString(price),
		Images:  []string{"https://example.com/" + id + ".jpg"},
		InStock: inStock,
	}
}

func add(id string, p models.Product, size, color string, qty int) AddItem {
	return AddItem{ID: id, Product: p, Size: size, Color: color, Quantity: qty, AddedAt: time.Unix(0, 0)}
}

// assertTotals checks the derived totals against a fresh fold over items
func assertTotals(t *testing.T, s State) {
	t.Helper()
	count := 0
	total := decimal.Zero
	for _, item := range s.Items {
		require.GreaterOrEqual(t, item.Quantity, 1)
		count += item.Quantity
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.Equal(t, count, s.TotalItems)
	assert.Equal(t, total.StringFixed(2), s.TotalPrice.StringFixed(2))
}

func TestReduceMergesSameTriple(t *testing.T) {
	shirt := product("1", "29.99", true)

	s := Reduce(Empty(), add("a", shirt, "M", "Black", 2))
	s = Reduce(s, add("b", shirt, "M", "Black", 3))

	require.Len(t, s.Items, 1)
	assert.Equal(t, "a", s.Items[0].ID)
	assert.Equal(t, 5, s.Items[0].Quantity)
	assert.Equal(t, "149.95", s.TotalPrice.StringFixed(2))
	assertTotals(t, s)
}

func TestReduceKeepsVariantsApart(t *testing.T) {
	shirt := product("1", "29.99", true)

	s := Reduce(Empty(), add("a", shirt, "M", "Black", 1))
	s = Reduce(s, add("b", shirt, "L", "Black", 1))
	s = Reduce(s, add("c", shirt, "M", "White", 1))

	require.Len(t, s.Items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(s))
	assert.Equal(t, 3, s.TotalItems)
	assertTotals(t, s)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	shirt := product("1", "10.00", true)
	before := Reduce(Empty(), add("a", shirt, "M", "Black", 1))

	after := Reduce(before, add("b", shirt, "M", "Black", 4))
	_ = Reduce(after, UpdateQuantity{ItemID: "a", Quantity: 9})

	assert.Equal(t, 1, before.Items[0].Quantity)
	assert.Equal(t, 1, before.TotalItems)
	assert.Equal(t, 5, after.Items[0].Quantity)
}

func TestReduceRemoveIsIdempotent(t *testing.T) {
	s := Reduce(Empty(), add("a", product("1", "5.00", true), "S", "Red", 2))

	once := Reduce(s, RemoveItem{ItemID: "a"})
	twice := Reduce(once, RemoveItem{ItemID: "a"})
	missing := Reduce(s, RemoveItem{ItemID: "nope"})

	assert.Empty(t, once.Items)
	assert.Equal(t, once, twice)
	assert.Equal(t, s.Items, missing.Items)
	assertTotals(t, missing)
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	s := Reduce(Empty(), add("a", product("1", "5.00", true), "S", "Red", 2))
	s = Reduce(s, add("b", product("2", "7.50", true), "M", "Blue", 1))

	for _, q := range []int{0, -3} {
		updated := Reduce(s, UpdateQuantity{ItemID: "a", Quantity: q})
		removed := Reduce(s, RemoveItem{ItemID: "a"})
		assert.Equal(t, removed, updated)
	}
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	s := Reduce(Empty(), add("a", product("1", "5.00", true), "S", "Red", 2))

	s = Reduce(s, UpdateQuantity{ItemID: "a", Quantity: 7})
	assert.Equal(t, 7, s.Items[0].Quantity)
	assert.Equal(t, "35.00", s.TotalPrice.StringFixed(2))

	unchanged := Reduce(s, UpdateQuantity{ItemID: "missing", Quantity: 3})
	assert.Equal(t, s.Items, unchanged.Items)
}

func TestVisibilityCommandsLeaveItemsAlone(t *testing.T) {
	s := Reduce(Empty(), add("a", product("1", "5.00", true), "S", "Red", 2))

	toggled := Reduce(s, Toggle{})
	assert.True(t, toggled.IsOpen)
	assert.Equal(t, s.Items, toggled.Items)
	assert.Equal(t, s.TotalItems, toggled.TotalItems)

	assert.False(t, Reduce(toggled, Toggle{}).IsOpen)
	assert.True(t, Reduce(s, Open{}).IsOpen)
	assert.True(t, Reduce(Reduce(s, Open{}), Open{}).IsOpen)
	assert.False(t, Reduce(toggled, Close{}).IsOpen)
}

func TestClearZeroesTotals(t *testing.T) {
	s := Reduce(Empty(), add("a", product("1", "5.00", true), "S", "Red", 2))
	s = Reduce(s, Open{})

	s = Reduce(s, Clear{})
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.TotalItems)
	assert.True(t, s.TotalPrice.IsZero())
	assert.True(t, s.IsOpen)
}

func TestLoadRecomputesTotals(t *testing.T) {
	items := []models.CartItem{
		{ID: "a", Product: product("1", "10.00", true), Quantity: 2},
		{ID: "b", Product: product("2", "2.50", true), Quantity: 4},
	}

	s := Reduce(Empty(), Load{Items: items})
	assert.Equal(t, 6, s.TotalItems)
	assert.Equal(t, "30.00", s.TotalPrice.StringFixed(2))
}

func TestTotalsHoldAfterEveryOperation(t *testing.T) {
	a := product("1", "79.99", true)
	b := product("2", "24.99", true)
	c := product("3", "59.99", true)

	cmds := []Command{
		add("1", a, "32", "Black", 1),
		add("2", b, "M", "Red", 2),
		add("3", a, "32", "Black", 2),
		UpdateQuantity{ItemID: "2", Quantity: 5},
		add("4", c, "S", "Floral Blue", 1),
		RemoveItem{ItemID: "1"},
		UpdateQuantity{ItemID: "4", Quantity: 0},
		add("5", a, "34", "Black", 3),
		Toggle{},
		UpdateQuantity{ItemID: "missing", Quantity: 2},
		Clear{},
		add("6", c, "M", "Floral Pink", 1),
	}

	s := Empty()
	for _, cmd := range cmds {
		s = Reduce(s, cmd)
		assertTotals(t, s)
	}
	assert.Equal(t, []string{"6"}, ids(s))
}

func ids(s State) []string {
	out := make([]string, len(s.Items))
	for i, item := range s.Items {
		out[i] = item.ID
	}
	return out
}
