package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/internal/models"
	"storefront-service/internal/storage"
)

type failingStore struct{}

func (failingStore) Save(context.Context, string, []byte) error   { return errors.New("disk full") }
func (failingStore) Load(context.Context, string) ([]byte, error) { return nil, errors.New("io") }

func TestPersistAndRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	m, _ := newTestMachine()
	m.OnCommit(Persist(mem, "cart", zap.NewNop()))
	m.AddToCart(ctx, product("1", "29.99", true), "M", "Black", 2)
	m.AddToCart(ctx, product("2", "24.99", true), "S", "Red", 1)

	items, err := Restore(ctx, mem, "cart", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, items, 2)

	restored, _ := newTestMachine()
	restored.Load(ctx, items)
	s := restored.State()
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, "84.97", s.TotalPrice.StringFixed(2))
	assert.Equal(t, m.State().Items[0].ID, s.Items[0].ID)
}

func TestRestoreKeepsCapturedPrice(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	m, _ := newTestMachine()
	m.OnCommit(Persist(mem, "cart", zap.NewNop()))
	m.AddToCart(ctx, product("1", "29.99", true), "M", "Black", 1)

	// the catalog price changing later does not reach the stored snapshot
	items, err := Restore(ctx, mem, "cart", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "29.99", items[0].Product.Price.StringFixed(2))
}

func TestRestoreMissingIsEmpty(t *testing.T) {
	items, err := Restore(context.Background(), storage.NewMemory(), "cart", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRestoreDiscardsMalformedRecords(t *testing.T) {
	ctx := context.Background()

	zeroQty, _ := json.Marshal([]models.CartItem{{ID: "a", Product: product("1", "1.00", true), Quantity: 0}})
	noProduct, _ := json.Marshal([]models.CartItem{{ID: "a", Quantity: 1}})

	cases := map[string][]byte{
		"not json":       []byte("{{{"),
		"wrong shape":    []byte(`{"items": 3}`),
		"zero quantity":  zeroQty,
		"no product id":  noProduct,
		"bad price type": []byte(`[{"id":"a","product":{"id":"1","price":{}},"quantity":1}]`),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemory()
			require.NoError(t, mem.Save(ctx, "cart", data))

			items, err := Restore(ctx, mem, "cart", zap.NewNop())
			require.NoError(t, err)
			assert.Empty(t, items)

			m, _ := newTestMachine()
			m.Load(ctx, items)
			assert.Equal(t, 0, m.State().TotalItems)
		})
	}
}

func TestRestoreReportsBackendFailure(t *testing.T) {
	items, err := Restore(context.Background(), failingStore{}, "cart", zap.NewNop())
	assert.Error(t, err)
	assert.Empty(t, items)
}

func TestPersistSwallowsWriteFailures(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine()
	m.OnCommit(Persist(failingStore{}, "cart", zap.NewNop()))

	assert.NotPanics(t, func() {
		m.AddToCart(ctx, product("1", "5.00", true), "S", "Red", 1)
	})
	assert.Equal(t, 1, m.State().TotalItems)
}
