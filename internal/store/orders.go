package store

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/order"
)

// orderRow adds the JSON columns the order model keeps out of sqlx
type orderRow struct {
	models.Order
	ItemsJSON    []byte `db:"items"`
	ShippingJSON []byte `db:"shipping_address"`
	BillingJSON  []byte `db:"billing_address"`
}

func toRow(o *models.Order) (*orderRow, error) {
	row := &orderRow{Order: *o}
	var err error
	if row.ItemsJSON, err = json.Marshal(o.Items); err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	if row.ShippingJSON, err = json.Marshal(o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}
	if row.BillingJSON, err = json.Marshal(o.BillingAddress); err != nil {
		return nil, fmt.Errorf("failed to encode billing address: %w", err)
	}
	return row, nil
}

func (r *orderRow) toOrder() (models.Order, error) {
	o := r.Order
	if err := json.Unmarshal(r.ItemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("failed to decode items of %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(r.ShippingJSON, &o.ShippingAddress); err != nil {
		return o, fmt.Errorf("failed to decode shipping address of %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(r.BillingJSON, &o.BillingAddress); err != nil {
		return o, fmt.Errorf("failed to decode billing address of %s: %w", o.ID, err)
	}
	return o, nil
}

// Create inserts a placed order
func (s *Store) Create(ctx context.Context, o *models.Order) error {
	row, err := toRow(o)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			id, user_id, items, shipping_address, billing_address,
			subtotal, shipping, tax, discount, total_amount,
			status, payment_method, payment_status, tracking_number,
			created_at, updated_at, estimated_delivery)
		VALUES (
			:id, :user_id, :items, :shipping_address, :billing_address,
			:subtotal, :shipping, :tax, :discount, :total_amount,
			:status, :payment_method, :payment_status, :tracking_number,
			:created_at, :updated_at, :estimated_delivery)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// ListByUser retrieves the orders of a user, newest first
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var rows []orderRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Stats counts orders and sums their totals
func (s *Store) Stats(ctx context.Context) (order.Stats, error) {
	var st order.Stats
	err := s.db.GetContext(ctx, &st,
		"SELECT COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue FROM orders")
	return st, err
}
