// Package wishlist keeps the shopper's saved products, at most one entry per
// product id.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/storage"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CommitHook runs after every mutation with the committed items
type CommitHook func(ctx context.Context, items []models.WishlistItem)

// Wishlist owns one shopper's saved products
type Wishlist struct {
	mu       sync.Mutex
	items    []models.WishlistItem
	hooks    []CommitHook
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Wishlist
type Option func(*Wishlist)

// WithClock sets the time source for entry ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(w *Wishlist) { w.now = now }
}

// WithNotifier sets where notices go
func WithNotifier(n notify.Notifier) Option {
	return func(w *Wishlist) { w.notifier = n }
}

// New creates an empty wishlist
func New(opts ...Option) *Wishlist {
	w := &Wishlist{
		items:    []models.WishlistItem{},
		notifier: notify.Discard,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnCommit registers a hook run after every mutation
func (w *Wishlist) OnCommit(hook CommitHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks = append(w.hooks, hook)
}

// Items returns a snapshot of the saved entries in insertion order
func (w *Wishlist) Items() []models.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.WishlistItem{}, w.items...)
}

// Len returns the number of saved products
func (w *Wishlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// IsInWishlist reports whether productID is saved
func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexOf(productID) >= 0
}

// AddToWishlist saves product. A product already saved is left alone and
// reported with a notice; the return value says whether anything was added.
func (w *Wishlist) AddToWishlist(ctx context.Context, product models.Product) bool {
	w.mu.Lock()
	if w.indexOf(product.ID) >= 0 {
		w.mu.Unlock()
		util.WishlistOperationsTotal.WithLabelValues("duplicate").Inc()
		w.notifier.Notify(ctx, notify.Notice{
			Kind:        notify.WishlistDuplicate,
			Title:       "Already in Wishlist",
			Description: "This item is already in your wishlist.",
			Variant:     notify.VariantDefault,
			ProductID:   product.ID,
		})
		return false
	}

	now := w.now().UTC()
	w.items = append(w.items, models.WishlistItem{
		ID:      EntryID(product.ID, now),
		Product: product,
		AddedAt: now,
	})
	w.commit(ctx, "add")

	w.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.WishlistAdded,
		Title:       "Added to Wishlist",
		Description: fmt.Sprintf("%s has been added to your wishlist.", product.Name),
		Variant:     notify.VariantDefault,
		ProductID:   product.ID,
	})
	return true
}

// RemoveFromWishlist removes the entry for productID. Removing a product
// that is not saved does nothing and raises no notice.
func (w *Wishlist) RemoveFromWishlist(ctx context.Context, productID string) bool {
	w.mu.Lock()
	i := w.indexOf(productID)
	if i < 0 {
		w.mu.Unlock()
		return false
	}

	removed := w.items[i]
	items := make([]models.WishlistItem, 0, len(w.items)-1)
	items = append(items, w.items[:i]...)
	w.items = append(items, w.items[i+1:]...)
	w.commit(ctx, "remove")

	w.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.WishlistRemoved,
		Title:       "Removed from Wishlist",
		Description: fmt.Sprintf("%s has been removed from your wishlist.", removed.Product.Name),
		Variant:     notify.VariantDefault,
		ProductID:   productID,
	})
	return true
}

// ToggleWishlist removes product when saved and adds it otherwise. It
// reports whether the product is saved afterwards.
func (w *Wishlist) ToggleWishlist(ctx context.Context, product models.Product) bool {
	if w.IsInWishlist(product.ID) {
		w.RemoveFromWishlist(ctx, product.ID)
		return false
	}
	w.AddToWishlist(ctx, product)
	return true
}

// ClearWishlist removes every entry
func (w *Wishlist) ClearWishlist(ctx context.Context) {
	w.mu.Lock()
	w.items = []models.WishlistItem{}
	w.commit(ctx, "clear")

	w.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.WishlistCleared,
		Title:       "Wishlist Cleared",
		Description: "All items have been removed from your wishlist.",
		Variant:     notify.VariantDefault,
	})
}

// Load replaces the entries with a stored list, keeping the first entry of
// any duplicated product id. It is meant to run once at startup.
func (w *Wishlist) Load(ctx context.Context, items []models.WishlistItem) {
	seen := make(map[string]bool, len(items))
	deduped := make([]models.WishlistItem, 0, len(items))
	for _, item := range items {
		if seen[item.Product.ID] {
			continue
		}
		seen[item.Product.ID] = true
		deduped = append(deduped, item)
	}

	w.mu.Lock()
	w.items = deduped
	w.commit(ctx, "load")
}

// commit must be called with w.mu held; it releases the lock before running
// hooks.
func (w *Wishlist) commit(ctx context.Context, op string) {
	items := append([]models.WishlistItem{}, w.items...)
	hooks := append([]CommitHook(nil), w.hooks...)
	w.mu.Unlock()

	util.WishlistOperationsTotal.WithLabelValues(op).Inc()
	w.logger.Debug("Wishlist updated", zap.String("operation", op), zap.Int("items", len(items)))

	for _, hook := range hooks {
		hook(ctx, items)
	}
}

func (w *Wishlist) indexOf(productID string) int {
	for i, item := range w.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// EntryID builds an entry id from the product id and save time
func EntryID(productID string, at time.Time) string {
	return fmt.Sprintf("wishlist_%s_%d", productID, at.UnixMilli())
}

// Store is the slice of storage.Backend the wishlist needs
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// ErrMalformed marks a stored wishlist that cannot be trusted
var ErrMalformed = errors.New("wishlist: malformed stored record")

// Persist returns a commit hook that overwrites the stored list after every
// mutation. Failures are logged and counted only.
func Persist(store Store, key string, logger *zap.Logger) CommitHook {
	return func(ctx context.Context, items []models.WishlistItem) {
		data, err := json.Marshal(items)
		if err != nil {
			logger.Error("Failed to encode wishlist", zap.Error(err))
			return
		}
		if err := store.Save(ctx, key, data); err != nil {
			util.StorageFailuresTotal.WithLabelValues("save", storage.KeyWishlist).Inc()
			logger.Error("Failed to save wishlist", zap.String("key", key), zap.Error(err))
		}
	}
}

// Decode parses a stored list; every entry must carry a product id
func Decode(data []byte) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, item := range items {
		if item.Product.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no product", ErrMalformed, i)
		}
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	return items, nil
}

// Restore reads the stored wishlist, treating missing or malformed records
// as empty. Only backend failures are returned.
func Restore(ctx context.Context, store Store, key string, logger *zap.Logger) ([]models.WishlistItem, error) {
	data, err := store.Load(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.WishlistItem{}, nil
	}
	if err != nil {
		util.StorageFailuresTotal.WithLabelValues("load", storage.KeyWishlist).Inc()
		return []models.WishlistItem{}, fmt.Errorf("failed to load wishlist: %w", err)
	}

	items, err := Decode(data)
	if err != nil {
		util.StorageDiscardedTotal.WithLabelValues(storage.KeyWishlist).Inc()
		logger.Warn("Discarding stored wishlist", zap.String("key", key), zap.Error(err))
		return []models.WishlistItem{}, nil
	}
	return items, nil
}
