// Package session hosts one cart, wishlist and auth state per shopper. Each
// session is rehydrated from durable storage once, on first use, and writes
// every committed change back.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/query"
	"storefront-service/internal/storage"
	"storefront-service/internal/util"
	"storefront-service/internal/wishlist"

	"go.uber.org/zap"
)

// Session is one shopper's owned state
type Session struct {
	ID       string
	Cart     *cart.Machine
	Wishlist *wishlist.Wishlist
	Auth     *auth.Service
	Notices  *notify.Recorder
	Notifier notify.Notifier
	Search   *query.Latest[[]models.Product]

	mu       sync.Mutex
	lastSeen atomic.Int64
	now      func() time.Time
}

// Do runs fn as one event of the session. Events of a session never overlap.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()
	fn(notify.WithSession(ctx, s.ID))
}

// Context tags ctx with the session id for notices and events
func (s *Session) Context(ctx context.Context) context.Context {
	return notify.WithSession(ctx, s.ID)
}

func (s *Session) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

func (s *Session) idleSince(cutoff time.Time) bool {
	return s.lastSeen.Load() < cutoff.UnixNano()
}

// entry is a registry slot; ready is closed once s has been opened
type entry struct {
	ready chan struct{}
	s     *Session
}

// Registry creates and holds sessions by id
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	backend  storage.Backend
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewRegistry creates a registry persisting to backend. Every session's
// notices are also sent to notifier, which may be nil.
func NewRegistry(backend storage.Backend, notifier notify.Notifier) *Registry {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Registry{
		sessions: make(map[string]*entry),
		backend:  backend,
		notifier: notifier,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
}

// Get returns the session with id, loading it from storage the first time.
// Loading happens outside the registry lock; concurrent callers for the same
// id wait for the one load.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		r.sessions[id] = e
	} else {
		select {
		case <-e.ready:
			// touched under the registry lock so Evict cannot race it
			e.s.touch()
		default:
		}
	}
	r.mu.Unlock()

	if ok {
		<-e.ready
		return e.s
	}

	e.s = r.open(notify.WithSession(ctx, id), id)
	close(e.ready)
	util.ActiveSessions.Inc()
	return e.s
}

func (r *Registry) open(ctx context.Context, id string) *Session {
	ctx, span := util.StartSpan(ctx, "SessionRegistry.Open")
	defer span.End()

	scoped := storage.Scope(r.backend, id)
	rec := &notify.Recorder{}
	n := notify.Multi(rec, r.notifier)
	logger := r.logger.With(zap.String("session_id", id))

	s := &Session{
		ID:       id,
		Cart:     cart.NewMachine(cart.WithNotifier(n)),
		Wishlist: wishlist.New(wishlist.WithNotifier(n)),
		Auth:     auth.NewService(scoped, auth.WithNotifier(n)),
		Notices:  rec,
		Notifier: n,
		Search:   &query.Latest[[]models.Product]{},
		now:      r.now,
	}
	s.touch()

	items, err := cart.Restore(ctx, scoped, storage.KeyCart, logger)
	if err != nil {
		logger.Error("Starting with an empty cart", zap.Error(err))
	}
	s.Cart.Load(ctx, items)
	s.Cart.OnCommit(cart.Persist(scoped, storage.KeyCart, logger))

	saved, err := wishlist.Restore(ctx, scoped, storage.KeyWishlist, logger)
	if err != nil {
		logger.Error("Starting with an empty wishlist", zap.Error(err))
	}
	s.Wishlist.Load(ctx, saved)
	s.Wishlist.OnCommit(wishlist.Persist(scoped, storage.KeyWishlist, logger))

	if err := s.Auth.Restore(ctx); err != nil {
		logger.Error("Starting signed out", zap.Error(err))
	}

	logger.Debug("Session opened",
		zap.Int("cart_lines", len(items)),
		zap.Int("wishlist_items", len(saved)),
		zap.Bool("signed_in", s.Auth.IsAuthenticated()))
	return s
}

// Len is the number of sessions held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions idle for longer than idle. Sessions still loading or
// running an event are kept. Their state stays in storage and is reloaded on
// the next request.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	evicted := 0
	for id, e := range r.sessions {
		select {
		case <-e.ready:
		default:
			continue
		}
		if !e.s.mu.TryLock() {
			continue
		}
		if e.s.idleSince(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
		e.s.mu.Unlock()
	}
	util.ActiveSessions.Sub(float64(evicted))
	return evicted
}

// Sweep evicts idle sessions every interval until ctx is done
func (r *Registry) Sweep(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				r.logger.Info("Evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}
