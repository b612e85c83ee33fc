package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      int              `json:"discount,omitempty"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory"`
	Brand         string           `json:"brand"`
	Images        []string         `json:"images"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"reviewCount"`
	InStock       bool             `json:"inStock"`
	IsNew         bool             `json:"isNew,omitempty"`
	IsTrending    bool             `json:"isTrending,omitempty"`
	IsDeal        bool             `json:"isDeal,omitempty"`
	Tags          []string         `json:"tags"`
}

// Subcategory is a leaf of the category tree
type Subcategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

// Category groups products for navigation
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Image         string        `json:"image"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Review is a customer review of a product
type Review struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
	Helpful   int    `json:"helpful"`
}

// Deal is a promotion over a fixed set of products
type Deal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Discount    int       `json:"discount"`
	ValidUntil  time.Time `json:"validUntil"`
	Products    []Product `json:"products"`
}

// Banner is a hero slide on the landing page
type Banner struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Image      string `json:"image"`
	Link       string `json:"link"`
	ButtonText string `json:"buttonText,omitempty"`
	IsActive   bool   `json:"isActive"`
	Order      int    `json:"order"`
}

// CartItem is one line of the cart. The product is a snapshot taken when the
// line was created, so its price does not follow later catalog changes.
type CartItem struct {
	ID       string    `json:"id"`
	Product  Product   `json:"product"`
	Size     string    `json:"size"`
	Color    string    `json:"color"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// LineTotal is the captured price times the quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// WishlistItem is a saved product
type WishlistItem struct {
	ID      string    `json:"id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}

// PriceRange is a closed interval of prices
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether price lies within the closed interval
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// FilterOptions narrows a product listing. Empty sets and false flags do not filter.
type FilterOptions struct {
	Categories []string    `json:"categories"`
	Brands     []string    `json:"brands"`
	Sizes      []string    `json:"sizes"`
	Colors     []string    `json:"colors"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Ratings    []float64   `json:"ratings"`
	Discount   bool        `json:"discount"`
	InStock    bool        `json:"inStock"`
}

// User is the authenticated shopper
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Address is a shipping or billing address
type Address struct {
	ID           string `json:"id" db:"id"`
	UserID       string `json:"userId" db:"user_id"`
	Type         string `json:"type" db:"type" binding:"omitempty,oneof=home work other"`
	FirstName    string `json:"firstName" db:"first_name" binding:"required"`
	LastName     string `json:"lastName" db:"last_name" binding:"required"`
	Phone        string `json:"phone" db:"phone"`
	AddressLine1 string `json:"addressLine1" db:"address_line1" binding:"required"`
	AddressLine2 string `json:"addressLine2,omitempty" db:"address_line2"`
	City         string `json:"city" db:"city" binding:"required"`
	State        string `json:"state" db:"state"`
	PostalCode   string `json:"postalCode" db:"postal_code" binding:"required"`
	Country      string `json:"country" db:"country" binding:"required"`
	IsDefault    bool   `json:"isDefault" db:"is_default"`
}

// Order is a placed order. Items carry the cart snapshots they were built from.
type Order struct {
	ID                string          `json:"id" db:"id"`
	UserID            string          `json:"userId" db:"user_id"`
	Items             []CartItem      `json:"items" db:"-"`
	ShippingAddress   Address         `json:"shippingAddress" db:"-"`
	BillingAddress    Address         `json:"billingAddress" db:"-"`
	Subtotal          decimal.Decimal `json:"subtotal" db:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping" db:"shipping"`
	Tax               decimal.Decimal `json:"tax" db:"tax"`
	Discount          decimal.Decimal `json:"discount" db:"discount"`
	TotalAmount       decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status            string          `json:"status" db:"status"`
	PaymentMethod     string          `json:"paymentMethod" db:"payment_method"`
	PaymentStatus     string          `json:"paymentStatus" db:"payment_status"`
	TrackingNumber    string          `json:"trackingNumber,omitempty" db:"tracking_number"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty" db:"estimated_delivery"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)
