// Package catalog is the read-only mock catalog: products, categories,
// banners, deals and reviews held in memory for the life of the process.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"storefront-service/internal/models"
)

// Store holds the immutable catalog. Accessors return copies so callers
// cannot reach the backing arrays.
type Store struct {
	products   []models.Product
	byID       map[string]int
	categories []models.Category
	banners    []models.Banner
	deals      []models.Deal
	reviews    []models.Review
}

// NewStore builds a catalog from the given records
func NewStore(products []models.Product, categories []models.Category, banners []models.Banner, reviews []models.Review) *Store {
	s := &Store{
		products:   append([]models.Product(nil), products...),
		byID:       make(map[string]int, len(products)),
		categories: append([]models.Category(nil), categories...),
		banners:    append([]models.Banner(nil), banners...),
		reviews:    append([]models.Review(nil), reviews...),
	}
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	s.deals = seedDeals(s.products)
	return s
}

// Default returns the storefront's mock catalog
func Default() *Store {
	return NewStore(seedProducts, seedCategories, seedBanners, seedReviews)
}

// Products returns every product in catalog order
func (s *Store) Products() []models.Product {
	return append([]models.Product(nil), s.products...)
}

// Product looks up a product by id
func (s *Store) Product(id string) (models.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// Featured returns trending or new products, at most 8
func (s *Store) Featured() []models.Product {
	return firstN(s.products, 8, func(p *models.Product) bool { return p.IsTrending || p.IsNew })
}

// Trending returns trending products, at most 6
func (s *Store) Trending() []models.Product {
	return firstN(s.products, 6, func(p *models.Product) bool { return p.IsTrending })
}

// DealProducts returns products on deal, at most 6
func (s *Store) DealProducts() []models.Product {
	return firstN(s.products, 6, func(p *models.Product) bool { return p.IsDeal })
}

// NewArrivals returns new products, at most 6
func (s *Store) NewArrivals() []models.Product {
	return firstN(s.products, 6, func(p *models.Product) bool { return p.IsNew })
}

// Categories returns the category tree
func (s *Store) Categories() []models.Category {
	return append([]models.Category(nil), s.categories...)
}

// Category looks up a category by slug
func (s *Store) Category(slug string) (models.Category, bool) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.Category{}, false
}

// Reviews returns the reviews of one product
func (s *Store) Reviews(productID string) []models.Review {
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// Deals returns every deal
func (s *Store) Deals() []models.Deal {
	return append([]models.Deal(nil), s.deals...)
}

// Banners returns active banners ordered by their display order
func (s *Store) Banners() []models.Banner {
	out := []models.Banner{}
	for _, b := range s.banners {
		if b.IsActive {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// FilterOptions describes the values a shopper can filter the given
// category by. An empty category considers the whole catalog.
func (s *Store) FilterOptions(category string) models.FilterOptions {
	relevant := s.products
	if category != "" {
		relevant = firstN(s.products, len(s.products), func(p *models.Product) bool { return p.Category == category })
	}

	opts := models.FilterOptions{
		Categories: make([]string, 0, len(s.categories)),
		Brands:     []string{},
		Sizes:      []string{},
		Colors:     []string{},
		Ratings:    []float64{5, 4, 3, 2, 1},
		Discount:   true,
		InStock:    true,
	}
	for _, c := range s.categories {
		opts.Categories = append(opts.Categories, c.Name)
	}

	seenBrand := map[string]bool{}
	seenSize := map[string]bool{}
	seenColor := map[string]bool{}
	for i, p := range relevant {
		opts.Brands = appendUnique(opts.Brands, seenBrand, p.Brand)
		for _, size := range p.Sizes {
			opts.Sizes = appendUnique(opts.Sizes, seenSize, size)
		}
		for _, color := range p.Colors {
			opts.Colors = appendUnique(opts.Colors, seenColor, color)
		}

		if i == 0 {
			opts.PriceRange = &models.PriceRange{Min: p.Price, Max: p.Price}
			continue
		}
		opts.PriceRange.Min = decimal.Min(opts.PriceRange.Min, p.Price)
		opts.PriceRange.Max = decimal.Max(opts.PriceRange.Max, p.Price)
	}

	return opts
}

// Stats summarises the catalog for the admin overview
type Stats struct {
	Products      int     `json:"products"`
	InStock       int     `json:"inStock"`
	OutOfStock    int     `json:"outOfStock"`
	Categories    int     `json:"categories"`
	Brands        int     `json:"brands"`
	Deals         int     `json:"deals"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// Stats computes catalog statistics
func (s *Store) Stats() Stats {
	st := Stats{
		Products:   len(s.products),
		Categories: len(s.categories),
		Deals:      len(s.deals),
	}

	brands := map[string]bool{}
	var ratingSum float64
	for _, p := range s.products {
		if p.InStock {
			st.InStock++
		} else {
			st.OutOfStock++
		}
		brands[p.Brand] = true
		ratingSum += p.Rating
		st.TotalReviews += p.ReviewCount
	}
	st.Brands = len(brands)
	if len(s.products) > 0 {
		st.AverageRating = float64(int(ratingSum/float64(len(s.products))*100+0.5)) / 100
	}
	return st
}

func firstN(products []models.Product, n int, pred func(*models.Product) bool) []models.Product {
	out := []models.Product{}
	for i := range products {
		if len(out) == n {
			break
		}
		if pred(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

func appendUnique(values []string, seen map[string]bool, v string) []string {
	if seen[v] {
		return values
	}
	seen[v] = true
	return append(values, v)
}
