// Package admin builds the dashboard overview for admin users.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/order"
	"storefront-service/internal/util"
)

// ErrForbidden is returned when the caller is not an admin
var ErrForbidden = errors.New("admin: forbidden")

// ActivitySource reports storefront activity counters by event type
type ActivitySource interface {
	Activity(ctx context.Context) (map[string]int64, error)
}

// OrderStats reports order totals
type OrderStats interface {
	Stats(ctx context.Context) (order.Stats, error)
}

// Overview is the admin dashboard payload
type Overview struct {
	Catalog     catalog.Stats    `json:"catalog"`
	Orders      order.Stats      `json:"orders"`
	Activity    map[string]int64 `json:"activity"`
	Sessions    int              `json:"sessions"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

type Service struct {
	catalog  *catalog.Store
	orders   OrderStats
	activity ActivitySource
	sessions func() int
	now      func() time.Time
}

// NewService creates the overview service. activity may be nil when no
// event stream is configured.
func NewService(store *catalog.Store, orders OrderStats, activity ActivitySource, sessions func() int) *Service {
	return &Service{
		catalog:  store,
		orders:   orders,
		activity: activity,
		sessions: sessions,
		now:      time.Now,
	}
}

// Overview assembles the dashboard for user
func (s *Service) Overview(ctx context.Context, user models.User) (*Overview, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.Overview")
	defer span.End()

	if !user.IsAdmin {
		return nil, ErrForbidden
	}

	orders, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order stats: %w", err)
	}

	activity := map[string]int64{}
	if s.activity != nil {
		if activity, err = s.activity.Activity(ctx); err != nil {
			return nil, fmt.Errorf("failed to load activity: %w", err)
		}
	}

	ov := &Overview{
		Catalog:     s.catalog.Stats(),
		Orders:      orders,
		Activity:    activity,
		GeneratedAt: s.now().UTC(),
	}
	if s.sessions != nil {
		ov.Sessions = s.sessions()
	}
	return ov, nil
}
