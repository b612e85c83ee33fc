package cart

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShipping          = decimal.RequireFromString("9.99")
	TaxRate               = decimal.RequireFromString("0.08")
)

// Summary is the order summary shown next to the cart
type Summary struct {
	Subtotal             decimal.Decimal `json:"subtotal"`
	Shipping             decimal.Decimal `json:"shipping"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	FreeShipping         bool            `json:"freeShipping"`
	AwayFromFreeShipping decimal.Decimal `json:"awayFromFreeShipping"`
}

// Summarize prices the cart: free shipping strictly above the threshold,
// flat shipping otherwise (nothing for an empty cart), tax on the subtotal
// rounded to cents.
func (s State) Summarize() Summary {
	subtotal := s.TotalPrice
	sum := Summary{
		Subtotal:             subtotal,
		Shipping:             decimal.Zero,
		Tax:                  subtotal.Mul(TaxRate).Round(2),
		AwayFromFreeShipping: decimal.Zero,
	}

	switch {
	case len(s.Items) == 0:
	case subtotal.GreaterThan(FreeShippingThreshold):
		sum.FreeShipping = true
	default:
		sum.Shipping = FlatShipping
	}
	if subtotal.LessThan(FreeShippingThreshold) {
		sum.AwayFromFreeShipping = FreeShippingThreshold.Sub(subtotal)
	}

	sum.Total = subtotal.Add(sum.Shipping).Add(sum.Tax)
	return sum
}
