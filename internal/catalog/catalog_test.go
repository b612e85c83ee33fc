package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
	"storefront-service/internal/query"
)

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestDefaultCatalogCollections(t *testing.T) {
	s := Default()

	assert.Len(t, s.Products(), 10)
	assert.Equal(t, []string{"1", "2", "4", "6", "8", "9", "10"}, ids(s.Featured()))
	assert.Equal(t, []string{"1", "4", "8", "10"}, ids(s.Trending()))
	assert.Equal(t, []string{"3", "5", "10"}, ids(s.DealProducts()))
	assert.Equal(t, []string{"2", "4", "6", "9"}, ids(s.NewArrivals()))

	p, ok := s.Product("4")
	require.True(t, ok)
	assert.Equal(t, "Floral Summer Dress", p.Name)
	assert.Equal(t, "59.99", p.Price.StringFixed(2))

	_, ok = s.Product("999")
	assert.False(t, ok)
}

func TestProductsReturnsCopy(t *testing.T) {
	s := Default()

	products := s.Products()
	products[0].Name = "changed"

	p, _ := s.Product("1")
	assert.Equal(t, "Classic Cotton T-Shirt", p.Name)
}

func TestCategoriesAndReviews(t *testing.T) {
	s := Default()

	c, ok := s.Category("women")
	require.True(t, ok)
	assert.Equal(t, "Women", c.Name)
	assert.Len(t, c.Subcategories, 5)

	_, ok = s.Category("pets")
	assert.False(t, ok)

	assert.Len(t, s.Reviews("1"), 2)
	assert.Empty(t, s.Reviews("2"))
	assert.NotNil(t, s.Reviews("2"))
}

func TestBannersActiveAndOrdered(t *testing.T) {
	s := NewStore(nil, nil, []models.Banner{
		{ID: "a", IsActive: true, Order: 3},
		{ID: "b", IsActive: false, Order: 1},
		{ID: "c", IsActive: true, Order: 2},
	}, nil)

	banners := s.Banners()
	require.Len(t, banners, 2)
	assert.Equal(t, "c", banners[0].ID)
	assert.Equal(t, "a", banners[1].ID)
}

func TestDeals(t *testing.T) {
	deals := Default().Deals()

	require.Len(t, deals, 2)
	assert.Equal(t, "Flash Sale", deals[0].Title)
	assert.Equal(t, []string{"3", "5", "10"}, ids(deals[0].Products))
	assert.Equal(t, []string{"2", "4", "6", "9"}, ids(deals[1].Products))
}

func TestFilterOptionsForCategory(t *testing.T) {
	opts := Default().FilterOptions("men")

	assert.Equal(t, []string{"Urban Fit", "Style Co", "Denim Co", "Business Pro", "Walk Comfort"}, opts.Brands)
	assert.Equal(t, []string{"Men", "Women", "Kids"}, opts.Categories)
	assert.Contains(t, opts.Sizes, "XXL")
	assert.Contains(t, opts.Sizes, "34")
	assert.NotContains(t, opts.Sizes, "XS")
	require.NotNil(t, opts.PriceRange)
	assert.Equal(t, "24.99", opts.PriceRange.Min.StringFixed(2))
	assert.Equal(t, "89.99", opts.PriceRange.Max.StringFixed(2))
	assert.Equal(t, []float64{5, 4, 3, 2, 1}, opts.Ratings)
	assert.True(t, opts.Discount)
	assert.True(t, opts.InStock)
}

func TestFilterOptionsWholeCatalog(t *testing.T) {
	opts := Default().FilterOptions("")

	assert.Len(t, opts.Brands, 10)
	assert.Equal(t, "19.99", opts.PriceRange.Min.StringFixed(2))
	assert.Equal(t, "149.99", opts.PriceRange.Max.StringFixed(2))

	none := Default().FilterOptions("pets")
	assert.Empty(t, none.Brands)
	assert.Nil(t, none.PriceRange)
}

func TestFilterOptionsCategoriesSelectProducts(t *testing.T) {
	store := Default()
	opts := store.FilterOptions("")

	total := 0
	for _, name := range opts.Categories {
		page := query.Run(store.Products(), query.Params{
			Filters: &models.FilterOptions{Categories: []string{name}},
			Limit:   100,
		})
		assert.NotZero(t, page.Total, name)
		total += page.Total
	}
	assert.Equal(t, len(store.Products()), total)

	men := query.Filter(store.Products(), query.Params{Filters: &models.FilterOptions{Categories: []string{"Men"}}})
	assert.Equal(t, []string{"1", "2", "3", "7", "8"}, ids(men))
}

func TestStats(t *testing.T) {
	st := Default().Stats()

	assert.Equal(t, 10, st.Products)
	assert.Equal(t, 10, st.InStock)
	assert.Equal(t, 0, st.OutOfStock)
	assert.Equal(t, 3, st.Categories)
	assert.Equal(t, 10, st.Brands)
	assert.Equal(t, 2, st.Deals)
	assert.InDelta(t, 4.54, st.AverageRating, 0.001)
	assert.Equal(t, 1374, st.TotalReviews)
}

func newTestAPI() *API {
	return NewAPI(Default(), Latency{}, 0, 0)
}

func TestAPIGetProducts(t *testing.T) {
	api := newTestAPI()

	page, err := api.GetProducts(context.Background(), query.Params{Category: "men", Sort: query.SortPriceLowHigh})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, []string{"2", "1", "7", "3", "8"}, ids(page.Products))

	page, err = api.GetProducts(context.Background(), query.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 10)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
}

func TestAPIGetProductMissing(t *testing.T) {
	api := newTestAPI()

	p, err := api.GetProduct(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)

	c, err := api.GetCategory(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestAPISearch(t *testing.T) {
	api := NewAPI(Default(), Latency{}, 0, 2)

	results, err := api.SearchProducts(context.Background(), "casual")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestAPIAddReview(t *testing.T) {
	api := newTestAPI()
	api.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	r, err := api.AddReview(context.Background(), models.Review{ProductID: "1", Rating: 5, Helpful: 40})
	require.NoError(t, err)
	assert.Equal(t, "review_1717243200000", r.ID)
	assert.Equal(t, "2024-06-01", r.Date)
	assert.Equal(t, 0, r.Helpful)
}

func TestAPIHonoursContext(t *testing.T) {
	api := NewAPI(Default(), Latency{List: time.Minute, Read: time.Minute, Meta: time.Minute}, 0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := api.GetProducts(ctx, query.Params{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLatencyFromMillis(t *testing.T) {
	l := LatencyFromMillis(300)
	assert.Equal(t, DefaultLatency(), l)

	assert.Equal(t, Latency{}, LatencyFromMillis(0))
}
