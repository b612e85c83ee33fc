package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/storage"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Store is the slice of storage.Backend the cart needs
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// ErrMalformed marks a stored cart that cannot be trusted
var ErrMalformed = errors.New("cart: malformed stored record")

// Persist returns a commit hook that overwrites the stored item list after
// every transition. Write failures are logged and counted, never returned.
func Persist(store Store, key string, logger *zap.Logger) CommitHook {
	return func(ctx context.Context, s State) {
		data, err := json.Marshal(s.Items)
		if err != nil {
			logger.Error("Failed to encode cart", zap.Error(err))
			return
		}
		if err := store.Save(ctx, key, data); err != nil {
			util.StorageFailuresTotal.WithLabelValues("save", storage.KeyCart).Inc()
			logger.Error("Failed to save cart", zap.String("key", key), zap.Error(err))
		}
	}
}

// Decode parses a stored item list. Every line must have an id, a product id
// and a quantity of at least 1.
func Decode(data []byte) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, item := range items {
		if item.ID == "" || item.Product.ID == "" {
			return nil, fmt.Errorf("%w: line %d has no id", ErrMalformed, i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrMalformed, i, item.Quantity)
		}
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Restore reads the stored cart. A missing record is an empty cart; a
// malformed one is logged and also treated as empty. Only backend failures
// are returned.
func Restore(ctx context.Context, store Store, key string, logger *zap.Logger) ([]models.CartItem, error) {
	data, err := store.Load(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		util.StorageFailuresTotal.WithLabelValues("load", storage.KeyCart).Inc()
		return []models.CartItem{}, fmt.Errorf("failed to load cart: %w", err)
	}

	items, err := Decode(data)
	if err != nil {
		util.StorageDiscardedTotal.WithLabelValues(storage.KeyCart).Inc()
		logger.Warn("Discarding stored cart", zap.String("key", key), zap.Error(err))
		return []models.CartItem{}, nil
	}
	return items, nil
}
