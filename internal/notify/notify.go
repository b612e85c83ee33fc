// Package notify carries the advisory, user-visible notices raised by cart,
// wishlist, auth and checkout operations. Rejections in those packages are
// never returned as errors; they surface here instead.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Kind identifies what happened
type Kind string

const (
	CartAdded         Kind = "cart.added"
	CartRemoved       Kind = "cart.removed"
	CartCleared       Kind = "cart.cleared"
	CartOutOfStock    Kind = "cart.out_of_stock"
	WishlistAdded     Kind = "wishlist.added"
	WishlistDuplicate Kind = "wishlist.duplicate"
	WishlistRemoved   Kind = "wishlist.removed"
	WishlistCleared   Kind = "wishlist.cleared"
	LoginSucceeded    Kind = "auth.login"
	LoginFailed       Kind = "auth.login_failed"
	Registered        Kind = "auth.registered"
	LoggedOut         Kind = "auth.logout"
	ProfileUpdated    Kind = "auth.profile_updated"
	OrderPlaced       Kind = "order.placed"
	OrderRejected     Kind = "order.rejected"
)

// Variant mirrors the toast styles of the storefront
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a transient notification for the shopper
type Notice struct {
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
	ProductID   string  `json:"productId,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
}

// Notifier receives notices
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice
var Discard Notifier = NotifierFunc(func(context.Context, Notice) {})

// Multi fans a notice out to several notifiers in order
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notice) {
		for _, nt := range notifiers {
			if nt != nil {
				nt.Notify(ctx, n)
			}
		}
	})
}

// Log writes every notice to the logger
func Log(logger *zap.Logger) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notice) {
		fields := []zap.Field{
			zap.String("kind", string(n.Kind)),
			zap.String("title", n.Title),
		}
		if sid := SessionFromContext(ctx); sid != "" {
			fields = append(fields, zap.String("session_id", sid))
		}
		if n.ProductID != "" {
			fields = append(fields, zap.String("product_id", n.ProductID))
		}
		if n.Variant == VariantDestructive {
			logger.Warn("Notice", fields...)
			return
		}
		logger.Debug("Notice", fields...)
	})
}

// Recorder keeps notices in memory until drained
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Drain returns the recorded notices and forgets them
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Kinds lists the kinds recorded so far without draining
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, len(r.notices))
	for i, n := range r.notices {
		kinds[i] = n.Kind
	}
	return kinds
}

type sessionKey struct{}

// WithSession tags ctx with the session that raised the notices
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the session id set by WithSession
func SessionFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionKey{}).(string)
	return sid
}
