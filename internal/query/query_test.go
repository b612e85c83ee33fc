package query

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func p(id, price string) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), InStock: true}
}

func productIDs(products []models.Product) []string {
	out := make([]string, len(products))
	for i, pr := range products {
		out[i] = pr.ID
	}
	return out
}

func TestAttributeFiltersAndAcrossOrWithin(t *testing.T) {
	p1 := p("1", "10.00")
	p1.Sizes, p1.Colors = []string{"S"}, []string{"Red"}
	p2 := p("2", "20.00")
	p2.Sizes, p2.Colors = []string{"M"}, []string{"Blue"}
	products := []models.Product{p1, p2}

	none := Filter(products, Params{Filters: &models.FilterOptions{
		Sizes:  []string{"S"},
		Colors: []string{"Blue"},
	}})
	assert.Empty(t, none)

	both := Filter(products, Params{Filters: &models.FilterOptions{
		Sizes:  []string{"S", "M"},
		Colors: []string{"Red", "Blue"},
	}})
	assert.Equal(t, []string{"1", "2"}, productIDs(both))
}

func TestSizeFilterMatchesAnySize(t *testing.T) {
	shirt := p("1", "10.00")
	shirt.Sizes = []string{"S", "M", "L"}

	got := Filter([]models.Product{shirt}, Params{Filters: &models.FilterOptions{Sizes: []string{"L", "XXL"}}})
	assert.Len(t, got, 1)
}

func TestCategoryAndSubcategory(t *testing.T) {
	a := p("1", "1.00")
	a.Category, a.Subcategory = "men", "jeans"
	b := p("2", "1.00")
	b.Category, b.Subcategory = "women", "jeans"
	c := p("3", "1.00")
	c.Category, c.Subcategory = "men", "shoes"
	products := []models.Product{a, b, c}

	assert.Equal(t, []string{"1", "3"}, productIDs(Filter(products, Params{Category: "men"})))
	assert.Equal(t, []string{"1"}, productIDs(Filter(products, Params{Category: "men", Subcategory: "jeans"})))
	assert.Empty(t, Filter(products, Params{Category: "pets"}))
	assert.Empty(t, Filter(products, Params{Subcategory: "hats"}))

	inSet := Filter(products, Params{Filters: &models.FilterOptions{Categories: []string{"women"}}})
	assert.Equal(t, []string{"2"}, productIDs(inSet))

	byName := Filter(products, Params{Filters: &models.FilterOptions{Categories: []string{"Women"}}})
	assert.Equal(t, []string{"2"}, productIDs(byName))
	assert.Equal(t, "ethnic-wear", CategoryKey("Ethnic  Wear"))
}

func TestSearchFields(t *testing.T) {
	a := p("1", "1.00")
	a.Name = "Classic Cotton T-Shirt"
	b := p("2", "1.00")
	b.Description = "Made from SOFT denim"
	c := p("3", "1.00")
	c.Brand = "Urban Fit"
	d := p("4", "1.00")
	d.Tags = []string{"festive", "ethnic"}
	products := []models.Product{a, b, c, d}

	assert.Equal(t, []string{"1"}, productIDs(Filter(products, Params{Search: "COTTON"})))
	assert.Equal(t, []string{"2"}, productIDs(Filter(products, Params{Search: "soft"})))
	assert.Equal(t, []string{"3"}, productIDs(Filter(products, Params{Search: "urban"})))
	assert.Equal(t, []string{"4"}, productIDs(Filter(products, Params{Search: "Ethn"})))
	assert.Len(t, Filter(products, Params{Search: "   "}), 4)
	assert.Empty(t, Filter(products, Params{Search: "velvet"}))
}

func TestPriceRatingDiscountStock(t *testing.T) {
	a := p("1", "24.99")
	a.Rating, a.Discount = 4.2, 0
	b := p("2", "59.99")
	b.Rating, b.Discount = 4.8, 25
	c := p("3", "79.99")
	c.Rating, c.Discount, c.InStock = 3.5, 20, false
	products := []models.Product{a, b, c}

	inRange := Filter(products, Params{Filters: &models.FilterOptions{
		PriceRange: &models.PriceRange{Min: decimal.RequireFromString("24.99"), Max: decimal.RequireFromString("59.99")},
	}})
	assert.Equal(t, []string{"1", "2"}, productIDs(inRange))

	// lowest selected threshold wins
	rated := Filter(products, Params{Filters: &models.FilterOptions{Ratings: []float64{4.5, 4}}})
	assert.Equal(t, []string{"1", "2"}, productIDs(rated))

	discounted := Filter(products, Params{Filters: &models.FilterOptions{Discount: true}})
	assert.Equal(t, []string{"2", "3"}, productIDs(discounted))

	stocked := Filter(products, Params{Filters: &models.FilterOptions{InStock: true, Discount: true}})
	assert.Equal(t, []string{"2"}, productIDs(stocked))
}

func TestFilterDoesNotTouchInput(t *testing.T) {
	products := []models.Product{p("1", "3.00"), p("2", "1.00"), p("3", "2.00")}

	page := Run(products, Params{Sort: SortPriceLowHigh, Search: "product"})
	assert.Equal(t, []string{"2", "3", "1"}, productIDs(page.Products))
	assert.Equal(t, []string{"1", "2", "3"}, productIDs(products))
}

func TestSortPriceLowHigh(t *testing.T) {
	products := []models.Product{p("a", "79.99"), p("b", "24.99"), p("c", "59.99")}

	SortProducts(products, SortPriceLowHigh)

	var prices []string
	for _, pr := range products {
		prices = append(prices, pr.Price.StringFixed(2))
	}
	assert.Equal(t, []string{"24.99", "59.99", "79.99"}, prices)

	SortProducts(products, SortPriceHighLow)
	assert.Equal(t, []string{"a", "c", "b"}, productIDs(products))
}

func TestSortNewestIsStable(t *testing.T) {
	products := make([]models.Product, 6)
	for i, isNew := range []bool{false, true, false, true, true, false} {
		products[i] = p(string(rune('a'+i)), "1.00")
		products[i].IsNew = isNew
	}

	SortProducts(products, SortNewest)
	assert.Equal(t, []string{"b", "d", "e", "a", "c", "f"}, productIDs(products))
}

func TestSortOthers(t *testing.T) {
	a := p("a", "1.00")
	a.Rating, a.Discount, a.ReviewCount = 4.2, 0, 89
	b := p("b", "1.00")
	b.Rating, b.Discount, b.ReviewCount = 4.9, 25, 167
	c := p("c", "1.00")
	c.Rating, c.Discount, c.ReviewCount = 4.9, 30, 234

	sorted := func(key string) []string {
		products := []models.Product{a, b, c}
		SortProducts(products, key)
		return productIDs(products)
	}

	assert.Equal(t, []string{"b", "c", "a"}, sorted(SortRating))
	assert.Equal(t, []string{"c", "b", "a"}, sorted(SortDiscount))
	assert.Equal(t, []string{"c", "b", "a"}, sorted(SortPopularity))
	assert.Equal(t, []string{"c", "b", "a"}, sorted(""))
	assert.Equal(t, []string{"c", "b", "a"}, sorted("bogus"))
}

func TestPaginate(t *testing.T) {
	products := make([]models.Product, 10)
	for i := range products {
		products[i] = p(string(rune('a'+i)), "1.00")
	}

	page := Paginate(products, 1, 12)
	assert.Len(t, page.Products, 10)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)

	page = Paginate(products, 2, 4)
	assert.Equal(t, []string{"e", "f", "g", "h"}, productIDs(page.Products))
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	page = Paginate(products, 3, 4)
	assert.Equal(t, []string{"i", "j"}, productIDs(page.Products))
	assert.False(t, page.HasNext)

	page = Paginate(products, 9, 4)
	assert.Empty(t, page.Products)
	assert.NotNil(t, page.Products)
	assert.True(t, page.HasPrev)

	page = Paginate(products, 0, 0)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Products, 10)

	empty := Paginate(nil, 1, 12)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Products)
}

func TestSearchCapsResults(t *testing.T) {
	products := make([]models.Product, 15)
	for i := range products {
		products[i] = p(string(rune('a'+i)), "1.00")
		products[i].Tags = []string{"casual"}
	}
	products[3].Tags = nil
	products[3].Name = "Formal"

	got := Search(products, "casual", 0)
	require.Len(t, got, DefaultSearchLimit)
	assert.NotContains(t, productIDs(got), "d")

	assert.Len(t, Search(products, "casual", 3), 3)
	assert.Empty(t, Search(products, "silk", 10))
	assert.True(t, Matches(products[3], "FORM"))
}

func TestLatestDropsSupersededResults(t *testing.T) {
	var l Latest[string]

	slow := l.Begin()
	fast := l.Begin()

	assert.True(t, l.Superseded(slow))
	assert.False(t, l.Superseded(fast))

	assert.True(t, l.Commit(fast, "fast"))
	assert.False(t, l.Commit(slow, "slow"))

	v, seq := l.Value()
	assert.Equal(t, "fast", v)
	assert.Equal(t, fast, seq)

	assert.False(t, l.Commit(fast+10, "never issued"))
}

func TestLatestAcceptsInOrderResults(t *testing.T) {
	var l Latest[int]

	first := l.Begin()
	assert.True(t, l.Commit(first, 1))
	second := l.Begin()
	assert.True(t, l.Commit(second, 2))

	v, _ := l.Value()
	assert.Equal(t, 2, v)
}

func TestLatestDropsResultOvertakenBeforeNewerResolves(t *testing.T) {
	var l Latest[int]

	old := l.Begin()
	newer := l.Begin()

	assert.True(t, l.Superseded(old))
	assert.False(t, l.Commit(old, 1))
	_, seq := l.Value()
	assert.Zero(t, seq)

	assert.True(t, l.Commit(newer, 2))
	v, seq := l.Value()
	assert.Equal(t, 2, v)
	assert.Equal(t, newer, seq)
}
