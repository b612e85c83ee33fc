package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront-service/internal/models"
	"storefront-service/internal/query"

	"github.com/shopspring/decimal"
)

// unbounded stands in for a missing maxPrice
var unbounded = decimal.New(1, 9)

// ParseProductQuery reads listing parameters from a query string. List
// values may repeat the key or be comma separated.
func ParseProductQuery(values url.Values) (query.Params, error) {
	p := query.Params{
		Category:    values.Get("category"),
		Subcategory: values.Get("subcategory"),
		Search:      values.Get("search"),
		Sort:        values.Get("sort"),
	}

	var err error
	if p.Page, err = intParam(values, "page"); err != nil {
		return p, err
	}
	if p.Limit, err = intParam(values, "limit"); err != nil {
		return p, err
	}

	f := &models.FilterOptions{
		Categories: list(values, "categories"),
		Brands:     list(values, "brands"),
		Sizes:      list(values, "sizes"),
		Colors:     list(values, "colors"),
	}

	for _, raw := range list(values, "ratings") {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("invalid ratings value %q", raw)
		}
		f.Ratings = append(f.Ratings, r)
	}

	if f.Discount, err = boolParam(values, "discount"); err != nil {
		return p, err
	}
	if f.InStock, err = boolParam(values, "inStock"); err != nil {
		return p, err
	}

	minRaw, maxRaw := values.Get("minPrice"), values.Get("maxPrice")
	if minRaw != "" || maxRaw != "" {
		r := models.PriceRange{Min: decimal.Zero, Max: unbounded}
		if minRaw != "" {
			if r.Min, err = decimal.NewFromString(minRaw); err != nil {
				return p, fmt.Errorf("invalid minPrice %q", minRaw)
			}
		}
		if maxRaw != "" {
			if r.Max, err = decimal.NewFromString(maxRaw); err != nil {
				return p, fmt.Errorf("invalid maxPrice %q", maxRaw)
			}
		}
		f.PriceRange = &r
	}

	if len(f.Categories)+len(f.Brands)+len(f.Sizes)+len(f.Colors)+len(f.Ratings) > 0 ||
		f.PriceRange != nil || f.Discount || f.InStock {
		p.Filters = f
	}
	return p, nil
}

func list(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intParam(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func boolParam(values url.Values, key string) (bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return b, nil
}
