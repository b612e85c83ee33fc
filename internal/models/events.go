package models

import "time"

// Event types
const (
	EventTypeCartItemAdded       = "CART_ITEM_ADDED"
	EventTypeCartItemRemoved     = "CART_ITEM_REMOVED"
	EventTypeCartCleared         = "CART_CLEARED"
	EventTypeCartRejected        = "CART_REJECTED"
	EventTypeWishlistItemAdded   = "WISHLIST_ITEM_ADDED"
	EventTypeWishlistItemRemoved = "WISHLIST_ITEM_REMOVED"
	EventTypeWishlistCleared     = "WISHLIST_CLEARED"
	EventTypeUserLoggedIn        = "USER_LOGGED_IN"
	EventTypeUserLoginFailed     = "USER_LOGIN_FAILED"
	EventTypeUserRegistered      = "USER_REGISTERED"
	EventTypeOrderPlaced         = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// StorefrontEvent is published for every notice raised by a session
type StorefrontEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// OrderPlacedEvent published when checkout succeeds
type OrderPlacedEvent struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	TotalAmount string `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
}
