package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/storage"
)

func shirt() models.Product {
	return models.Product{ID: "1", Name: "Classic Cotton T-Shirt", Price: decimal.RequireFromString("29.99"), InStock: true}
}

func TestGetReturnsSameSession(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil)
	ctx := context.Background()

	a := r.Get(ctx, "s1")
	b := r.Get(ctx, "s1")
	c := r.Get(ctx, "s2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestSessionStateSurvivesEviction(t *testing.T) {
	backend := storage.NewMemory()
	r := NewRegistry(backend, nil)
	ctx := context.Background()

	s := r.Get(ctx, "s1")
	s.Do(ctx, func(ctx context.Context) {
		require.True(t, s.Cart.AddToCart(ctx, shirt(), "M", "Black", 2))
		require.True(t, s.Wishlist.AddToWishlist(ctx, shirt()))
		require.True(t, s.Auth.Login(ctx, "user@example.com", "user123"))
	})

	r.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, r.Evict(time.Minute))
	assert.Equal(t, 0, r.Len())

	again := r.Get(ctx, "s1")
	require.NotSame(t, s, again)

	st := again.Cart.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.TotalItems)
	assert.Equal(t, "59.98", st.TotalPrice.StringFixed(2))
	assert.True(t, again.Wishlist.IsInWishlist("1"))
	assert.True(t, again.Auth.IsAuthenticated())
}

func TestSessionsAreIsolated(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil)
	ctx := context.Background()

	r.Get(ctx, "a").Cart.AddToCart(ctx, shirt(), "M", "Black", 1)

	assert.Empty(t, r.Get(ctx, "b").Cart.State().Items)
}

func TestCorruptedStoredCartStartsEmpty(t *testing.T) {
	backend := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, storage.SessionKey("s1", storage.KeyCart), []byte("{oops")))

	s := NewRegistry(backend, nil).Get(ctx, "s1")

	st := s.Cart.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, 0, st.TotalItems)
	assert.True(t, st.TotalPrice.IsZero())
}

func TestNoticesReachRecorderAndSharedNotifier(t *testing.T) {
	shared := &notify.Recorder{}
	var sessions []string
	tap := notify.NotifierFunc(func(ctx context.Context, _ notify.Notice) {
		sessions = append(sessions, notify.SessionFromContext(ctx))
	})
	r := NewRegistry(storage.NewMemory(), notify.Multi(shared, tap))
	ctx := context.Background()

	s := r.Get(ctx, "s9")
	s.Do(ctx, func(ctx context.Context) {
		s.Cart.AddToCart(ctx, shirt(), "L", "White", 1)
	})

	assert.Equal(t, []notify.Kind{notify.CartAdded}, s.Notices.Kinds())
	assert.Equal(t, []notify.Kind{notify.CartAdded}, shared.Kinds())
	assert.Equal(t, []string{"s9"}, sessions)
}

func TestEvictKeepsBusySession(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil)
	ctx := context.Background()
	s := r.Get(ctx, "busy")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Do(ctx, func(context.Context) {
			close(started)
			<-release
		})
	}()
	<-started

	r.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 0, r.Evict(time.Minute))
	assert.Same(t, s, r.Get(ctx, "busy"))

	close(release)
	<-done

	r.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, r.Evict(time.Minute))
}

// slowBackend blocks loads of one session until released
type slowBackend struct {
	*storage.Memory
	prefix  string
	loading chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *slowBackend) Load(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, b.prefix) {
		b.once.Do(func() { close(b.loading) })
		<-b.release
	}
	return b.Memory.Load(ctx, key)
}

func TestGetDoesNotBlockOtherSessionsWhileLoading(t *testing.T) {
	backend := &slowBackend{
		Memory:  storage.NewMemory(),
		prefix:  storage.SessionKey("slow", ""),
		loading: make(chan struct{}),
		release: make(chan struct{}),
	}
	r := NewRegistry(backend, nil)
	ctx := context.Background()

	results := make(chan *Session, 2)
	for i := 0; i < 2; i++ {
		go func() { results <- r.Get(ctx, "slow") }()
	}
	<-backend.loading

	fast := make(chan *Session)
	go func() { fast <- r.Get(ctx, "fast") }()
	select {
	case s := <-fast:
		assert.Equal(t, "fast", s.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("Get blocked behind another session's load")
	}

	close(backend.release)
	a, b := <-results, <-results
	assert.Same(t, a, b)
	assert.Equal(t, 2, r.Len())
}
