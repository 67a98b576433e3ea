package orders

import (
	"context"
	"fmt"
)

// GetOrder returns the full order view with its line items, scoped to the
// owning user. A missing or foreign order reads as not found.
func (c *Conf) GetOrder(ctx context.Context, orderID, userID int64) (*Detail, error) {
	queryDetail := `
		SELECT o.id, o.tracking_number, o.status, o.full_name, o.phone_number,
		       o.address, o.city, o.state_province, o.postal_code, o.delivery_address,
		       o.payment_method, o.subtotal, o.delivery_fee, o.total,
		       op.product_id, op.name, op.quantity, op.price, p.image_url
		FROM orders o
		JOIN ordered_products op ON op.order_id = o.id
		JOIN products p ON p.id = op.product_id
		WHERE o.id = $1 AND o.user_id = $2
	`
	return c.queryDetail(ctx, queryDetail, orderID, userID)
}

// GetByTrackingNumber looks an order up by its customer-facing code.
func (c *Conf) GetByTrackingNumber(ctx context.Context, trackingNumber string, userID int64) (*Detail, error) {
	queryDetail := `
		SELECT o.id, o.tracking_number, o.status, o.full_name, o.phone_number,
		       o.address, o.city, o.state_province, o.postal_code, o.delivery_address,
		       o.payment_method, o.subtotal, o.delivery_fee, o.total,
		       op.product_id, op.name, op.quantity, op.price, p.image_url
		FROM orders o
		JOIN ordered_products op ON op.order_id = o.id
		JOIN products p ON p.id = op.product_id
		WHERE o.tracking_number = $1 AND o.user_id = $2
	`
	return c.queryDetail(ctx, queryDetail, trackingNumber, userID)
}

// ListAll returns the user's orders newest first.
func (c *Conf) ListAll(ctx context.Context, userID int64) ([]Summary, error) {
	queryList := `
		SELECT id, tracking_number, status, order_date, total
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`
	rows, err := c.db.QueryContext(ctx, queryList, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.TrackingNumber, &s.Status, &s.OrderDate, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return summaries, nil
}

// History returns the user's orders with the rating flag and a display
// string of the ordered product names, newest first.
func (c *Conf) History(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	queryHistory := `
		SELECT o.id, o.tracking_number, o.status, o.order_date, o.total, o.is_rated,
		       STRING_AGG(op.name, ', ' ORDER BY op.id) AS products
		FROM orders o
		JOIN ordered_products op ON op.order_id = o.id
		WHERE o.user_id = $1
		GROUP BY o.id
		ORDER BY o.order_date DESC
	`
	rows, err := c.db.QueryContext(ctx, queryHistory, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.TrackingNumber, &e.Status, &e.OrderDate, &e.Total, &e.IsRated, &e.Products); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order history: %w", err)
	}

	return entries, nil
}

func (c *Conf) queryDetail(ctx context.Context, query string, args ...any) (*Detail, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order detail: %w", err)
	}
	defer rows.Close()

	var detail *Detail
	for rows.Next() {
		var d Detail
		var item Item
		if err := rows.Scan(
			&d.OrderID, &d.TrackingNumber, &d.Status, &d.BillingInfo.FullName, &d.BillingInfo.PhoneNumber,
			&d.BillingInfo.Address, &d.BillingInfo.City, &d.BillingInfo.StateProvince,
			&d.BillingInfo.PostalCode, &d.BillingInfo.DeliveryAddress,
			&d.PaymentMethod, &d.Subtotal, &d.Delivery, &d.Total,
			&item.ID, &item.Name, &item.Quantity, &item.Price, &item.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		if detail == nil {
			detail = &d
		}
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order detail: %w", err)
	}
	if detail == nil {
		return nil, ErrNotFound
	}

	return detail, nil
}
