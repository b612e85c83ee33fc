// Package query derives filtered, sorted and paginated views of a product
// list. Every function is pure: the input slice is never reordered or
// modified.
package query

import (
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// Sort keys accepted by Params.Sort
const (
	SortPopularity   = "popularity"
	SortPriceLowHigh = "price-low-high"
	SortPriceHighLow = "price-high-low"
	SortRating       = "rating"
	SortNewest       = "newest"
	SortDiscount     = "discount"
)

const (
	DefaultLimit       = 12
	DefaultSearchLimit = 10
)

// SortOption is a sort key with its display label
type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SortOptions lists the supported sorts in display order
var SortOptions = []SortOption{
	{Value: SortPopularity, Label: "Popularity"},
	{Value: SortPriceLowHigh, Label: "Price: Low to High"},
	{Value: SortPriceHighLow, Label: "Price: High to Low"},
	{Value: SortRating, Label: "Customer Rating"},
	{Value: SortNewest, Label: "Newest First"},
	{Value: SortDiscount, Label: "Discount"},
}

// Params describes one listing request. Zero values mean "no constraint",
// except Sort which falls back to popularity.
type Params struct {
	Category    string
	Subcategory string
	Search      string
	Sort        string
	Filters     *models.FilterOptions
	Page        int
	Limit       int
}

// Page is one page of results plus pagination metadata
type Page struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	HasNext    bool             `json:"hasNext"`
	HasPrev    bool             `json:"hasPrev"`
}

// Run applies the full pipeline: category, subcategory, search, attribute
// filters, sort, paginate.
func Run(products []models.Product, p Params) Page {
	matched := Filter(products, p)
	SortProducts(matched, p.Sort)
	return Paginate(matched, p.Page, p.Limit)
}

// Filter returns a new slice holding the products that pass every filter
// stage of p, in their original order.
func Filter(products []models.Product, p Params) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	if p.Category != "" {
		out = keep(out, func(pr *models.Product) bool { return pr.Category == p.Category })
	}
	if p.Subcategory != "" {
		out = keep(out, func(pr *models.Product) bool { return pr.Subcategory == p.Subcategory })
	}
	if term := normalize(p.Search); term != "" {
		out = keep(out, func(pr *models.Product) bool { return matches(pr, term) })
	}
	if p.Filters != nil {
		out = applyFilters(out, p.Filters)
	}
	return out
}

func applyFilters(out []models.Product, f *models.FilterOptions) []models.Product {
	if len(f.Categories) > 0 {
		set := make(map[string]bool, len(f.Categories))
		for _, c := range f.Categories {
			set[CategoryKey(c)] = true
		}
		out = keep(out, func(pr *models.Product) bool { return set[CategoryKey(pr.Category)] })
	}
	if len(f.Brands) > 0 {
		set := toSet(f.Brands)
		out = keep(out, func(pr *models.Product) bool { return set[pr.Brand] })
	}
	if len(f.Sizes) > 0 {
		set := toSet(f.Sizes)
		out = keep(out, func(pr *models.Product) bool { return anyIn(pr.Sizes, set) })
	}
	if len(f.Colors) > 0 {
		set := toSet(f.Colors)
		out = keep(out, func(pr *models.Product) bool { return anyIn(pr.Colors, set) })
	}
	if f.PriceRange != nil {
		r := *f.PriceRange
		out = keep(out, func(pr *models.Product) bool { return r.Contains(pr.Price) })
	}
	if len(f.Ratings) > 0 {
		// at least the lowest selected threshold
		min := f.Ratings[0]
		for _, r := range f.Ratings[1:] {
			if r < min {
				min = r
			}
		}
		out = keep(out, func(pr *models.Product) bool { return pr.Rating >= min })
	}
	if f.Discount {
		out = keep(out, func(pr *models.Product) bool { return pr.Discount > 0 })
	}
	if f.InStock {
		out = keep(out, func(pr *models.Product) bool { return pr.InStock })
	}
	return out
}

// SortProducts orders products in place by key. Unknown or empty keys sort
// by popularity. The sort is stable.
func SortProducts(products []models.Product, key string) {
	var less func(a, b *models.Product) bool

	switch key {
	case SortPriceLowHigh:
		less = func(a, b *models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHighLow:
		less = func(a, b *models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b *models.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b *models.Product) bool { return a.IsNew && !b.IsNew }
	case SortDiscount:
		less = func(a, b *models.Product) bool { return a.Discount > b.Discount }
	default:
		less = func(a, b *models.Product) bool { return a.ReviewCount > b.ReviewCount }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}

// Paginate slices products into a 1-indexed page of limit items
func Paginate(products []models.Product, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	total := len(products)
	start := (page - 1) * limit
	end := start + limit

	result := Page{
		Products:   []models.Product{},
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
		HasNext:    end < total,
		HasPrev:    page > 1,
	}

	if start < total {
		if end > total {
			end = total
		}
		result.Products = products[start:end]
	}
	return result
}

// Search is the type-ahead lookup: only the search predicate, capped at limit
func Search(products []models.Product, term string, limit int) []models.Product {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	term = normalize(term)
	results := make([]models.Product, 0, limit)
	for i := range products {
		if len(results) == limit {
			break
		}
		if term == "" || matches(&products[i], term) {
			results = append(results, products[i])
		}
	}
	return results
}

// Matches reports whether the product's name, description, brand or any tag
// contains term, ignoring case. An empty term matches everything.
func Matches(p models.Product, term string) bool {
	term = normalize(term)
	return term == "" || matches(&p, term)
}

func matches(p *models.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// CategoryKey folds a category name or slug to slug form, so "Men" and
// "men" select the same products.
func CategoryKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func keep(products []models.Product, pred func(*models.Product) bool) []models.Product {
	n := 0
	for i := range products {
		if pred(&products[i]) {
			products[n] = products[i]
			n++
		}
	}
	return products[:n]
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func anyIn(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}
