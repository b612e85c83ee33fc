package catalog

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/query"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Latency is the simulated backend delay per kind of call
type Latency struct {
	List time.Duration
	Read time.Duration
	Meta time.Duration
}

// DefaultLatency is 300ms for listings, 200ms for reads and 100ms for metadata
func DefaultLatency() Latency {
	return Latency{
		List: 300 * time.Millisecond,
		Read: 200 * time.Millisecond,
		Meta: 100 * time.Millisecond,
	}
}

// LatencyFromMillis scales DefaultLatency so that List equals ms
func LatencyFromMillis(ms int) Latency {
	if ms <= 0 {
		return Latency{}
	}
	list := time.Duration(ms) * time.Millisecond
	return Latency{List: list, Read: list * 2 / 3, Meta: list / 3}
}

// API exposes the catalog the way a remote backend would: every call waits
// for the simulated latency and gives up when ctx is done.
type API struct {
	store       *Store
	latency     Latency
	pageSize    int
	searchLimit int
	now         func() time.Time
	logger      *zap.Logger
}

// NewAPI creates a catalog API over store
func NewAPI(store *Store, latency Latency, pageSize, searchLimit int) *API {
	if pageSize <= 0 {
		pageSize = query.DefaultLimit
	}
	if searchLimit <= 0 {
		searchLimit = query.DefaultSearchLimit
	}
	return &API{
		store:       store,
		latency:     latency,
		pageSize:    pageSize,
		searchLimit: searchLimit,
		now:         time.Now,
		logger:      util.GetLogger(),
	}
}

// Store returns the catalog behind the API
func (a *API) Store() *Store {
	return a.store
}

// GetProducts runs the listing pipeline
func (a *API) GetProducts(ctx context.Context, params query.Params) (query.Page, error) {
	ctx, span := util.StartSpan(ctx, "CatalogAPI.GetProducts")
	defer span.End()

	if err := a.wait(ctx, "get_products", a.latency.List); err != nil {
		return query.Page{}, err
	}
	if params.Limit <= 0 {
		params.Limit = a.pageSize
	}

	page := query.Run(a.store.products, params)
	util.CatalogQueryResults.Observe(float64(page.Total))

	a.logger.Debug("Products queried",
		zap.String("category", params.Category),
		zap.String("search", params.Search),
		zap.String("sort", params.Sort),
		zap.Int("total", page.Total),
		zap.Int("page", page.Page))
	return page, nil
}

// GetProduct returns the product with id, or nil when there is none
func (a *API) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := a.wait(ctx, "get_product", a.latency.Read); err != nil {
		return nil, err
	}
	p, ok := a.store.Product(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (a *API) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	if err := a.wait(ctx, "featured", a.latency.Read); err != nil {
		return nil, err
	}
	return a.store.Featured(), nil
}

func (a *API) GetTrendingProducts(ctx context.Context) ([]models.Product, error) {
	if err := a.wait(ctx, "trending", a.latency.Read); err != nil {
		return nil, err
	}
	return a.store.Trending(), nil
}

func (a *API) GetDealsProducts(ctx context.Context) ([]models.Product, error) {
	if err := a.wait(ctx, "deal_products", a.latency.Read); err != nil {
		return nil, err
	}
	return a.store.DealProducts(), nil
}

func (a *API) GetNewArrivals(ctx context.Context) ([]models.Product, error) {
	if err := a.wait(ctx, "new_arrivals", a.latency.Read); err != nil {
		return nil, err
	}
	return a.store.NewArrivals(), nil
}

func (a *API) GetCategories(ctx context.Context) ([]models.Category, error) {
	if err := a.wait(ctx, "categories", a.latency.Meta); err != nil {
		return nil, err
	}
	return a.store.Categories(), nil
}

// GetCategory returns the category with slug, or nil when there is none
func (a *API) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	if err := a.wait(ctx, "category", a.latency.Meta); err != nil {
		return nil, err
	}
	c, ok := a.store.Category(slug)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (a *API) GetProductReviews(ctx context.Context, productID string) ([]models.Review, error) {
	if err := a.wait(ctx, "reviews", a.latency.Read); err != nil {
		return nil, err
	}
	return a.store.Reviews(productID), nil
}

// AddReview stamps a submitted review with an id and today's date. Reviews
// are not stored; the mock backend only echoes them.
func (a *API) AddReview(ctx context.Context, review models.Review) (models.Review, error) {
	if err := a.wait(ctx, "add_review", a.latency.List); err != nil {
		return models.Review{}, err
	}
	now := a.now().UTC()
	review.ID = fmt.Sprintf("review_%d", now.UnixMilli())
	review.Date = now.Format("2006-01-02")
	review.Helpful = 0
	return review, nil
}

func (a *API) GetDeals(ctx context.Context) ([]models.Deal, error) {
	if err := a.wait(ctx, "deals", a.latency.Read); err != nil {
		return nil, err
	}
	return a.store.Deals(), nil
}

func (a *API) GetBanners(ctx context.Context) ([]models.Banner, error) {
	if err := a.wait(ctx, "banners", a.latency.Meta); err != nil {
		return nil, err
	}
	return a.store.Banners(), nil
}

// SearchProducts is the type-ahead search
func (a *API) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogAPI.SearchProducts")
	defer span.End()

	if err := a.wait(ctx, "search", a.latency.List); err != nil {
		return nil, err
	}
	return query.Search(a.store.products, term, a.searchLimit), nil
}

func (a *API) GetFilterOptions(ctx context.Context, category string) (models.FilterOptions, error) {
	if err := a.wait(ctx, "filter_options", a.latency.Read); err != nil {
		return models.FilterOptions{}, err
	}
	return a.store.FilterOptions(category), nil
}

func (a *API) wait(ctx context.Context, op string, d time.Duration) error {
	start := time.Now()
	defer func() {
		util.CatalogQueryLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("catalog %s: %w", op, ctx.Err())
	case <-timer.C:
		return nil
	}
}
