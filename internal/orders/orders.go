// Package orders is the order lifecycle manager: checkout with transactional
// stock reservation, the status state machine, and ratings collection. Every
// multi-table write runs inside one transaction; a guard that matches zero
// rows rolls the whole operation back.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrNotOwned          = errors.New("order does not belong to the caller")
	ErrNotCancellable    = errors.New("order not found or cannot be cancelled")
	ErrNotReceivable     = errors.New("order not found or cannot be marked as received")
	ErrNotReturnable     = errors.New("order not found or cannot be returned")
	ErrAlreadyRated      = errors.New("order has already been rated")
	ErrInvalidTransition = errors.New("order not found or cannot transition to the requested status")
)

const uniqueViolation = "23505"

// InsufficientStockError aborts a checkout and names the offending product.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product: %s", e.Product)
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// PlaceOrder creates the order header and its line items atomically. Stock is
// decremented per line with a conditional update; a line whose product has
// too little stock aborts the whole order, so either the complete order
// exists with its stock reserved, or nothing does. The conditional update is
// also what keeps two concurrent checkouts from overselling the same product.
func (c *Conf) PlaceOrder(ctx context.Context, userID int64, no NewOrder) (PlacedOrder, error) {
	trackingNumber, err := newTrackingNumber()
	if err != nil {
		return PlacedOrder{}, err
	}

	var orderID int64
	err = c.withTx(ctx, func(tx *sql.Tx) error {
		queryInsertOrder := `
			INSERT INTO orders (user_id, tracking_number, status, full_name, phone_number,
			                    address, city, state_province, postal_code, delivery_address,
			                    payment_method, subtotal, delivery_fee, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`
		b := no.BillingInfo
		err := tx.QueryRowContext(ctx, queryInsertOrder,
			userID, trackingNumber, StatusPlaced, b.FullName, b.PhoneNumber,
			b.Address, b.City, b.StateProvince, b.PostalCode, b.DeliveryAddress,
			no.PaymentMethod, no.Subtotal, no.Delivery, no.Total,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		queryReserveStock := `
			UPDATE product_stocks
			SET quantity = quantity - $1, last_updated = NOW()
			WHERE product_id = $2 AND quantity >= $1
		`
		queryInsertItem := `
			INSERT INTO ordered_products (order_id, product_id, name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, item := range no.CartItems {
			res, err := tx.ExecContext(ctx, queryReserveStock, item.Quantity, item.ID)
			if err != nil {
				return fmt.Errorf("failed to reserve stock: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			if affected == 0 {
				return &InsufficientStockError{Product: item.Name}
			}

			if _, err := tx.ExecContext(ctx, queryInsertItem,
				orderID, item.ID, item.Name, item.Quantity, item.Price); err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return PlacedOrder{}, err
	}

	return PlacedOrder{OrderID: orderID, TrackingNumber: trackingNumber}, nil
}

// CancelOrder moves an owned, still unprocessed order to Cancelled and
// releases its reserved stock. Placement decrements stock, so cancellation
// compensates the same way returns do.
func (c *Conf) CancelOrder(ctx context.Context, orderID, userID int64) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		queryCancel := `
			UPDATE orders
			SET status = $1
			WHERE id = $2 AND user_id = $3 AND status = $4
		`
		res, err := tx.ExecContext(ctx, queryCancel, StatusCancelled, orderID, userID, StatusPlaced)
		if err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrNotCancellable
		}

		return restockOrderItems(ctx, tx, orderID)
	})
}

// MarkReceived confirms delivery: Delivered -> Received for the owner.
func (c *Conf) MarkReceived(ctx context.Context, orderID, userID int64) error {
	queryReceive := `
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND user_id = $3 AND status = $4
	`
	res, err := c.db.ExecContext(ctx, queryReceive, StatusReceived, orderID, userID, StatusDelivered)
	if err != nil {
		return fmt.Errorf("failed to mark order received: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotReceivable
	}
	return nil
}

// RequestReturn moves a Delivered or Received order to Returned, appends the
// reasons as feedback, and restocks the ordered quantities unless every
// submitted reason marks the goods unsellable.
func (c *Conf) RequestReturn(ctx context.Context, orderID, userID int64, reasonCodes []string, comment string) error {
	labels, restock, err := describeReasons(reasonCodes)
	if err != nil {
		return err
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		queryReturn := `
			UPDATE orders
			SET status = $1
			WHERE id = $2 AND user_id = $3 AND status IN ($4, $5)
		`
		res, err := tx.ExecContext(ctx, queryReturn, StatusReturned, orderID, userID, StatusDelivered, StatusReceived)
		if err != nil {
			return fmt.Errorf("failed to return order: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrNotReturnable
		}

		queryFeedback := `
			INSERT INTO order_feedback (order_id, feedback)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, queryFeedback, orderID, reasonFeedback(labels, comment)); err != nil {
			return fmt.Errorf("failed to insert return feedback: %w", err)
		}

		if restock {
			return restockOrderItems(ctx, tx, orderID)
		}
		return nil
	})
}

// SubmitRatings records one rating row per product plus optional feedback and
// flips the order's rated flag, all atomically. A second submission conflicts
// on both the flag's conditional update and the per-product uniqueness rule.
func (c *Conf) SubmitRatings(ctx context.Context, orderID, userID int64, ratings map[int64]int, feedback string) error {
	if len(ratings) == 0 {
		return fmt.Errorf("at least one rating is required")
	}
	for productID, rating := range ratings {
		if rating < 1 || rating > 5 {
			return fmt.Errorf("rating for product %d must be between 1 and 5", productID)
		}
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var isRated bool
		queryOwner := `
			SELECT is_rated
			FROM orders
			WHERE id = $1 AND user_id = $2
			FOR UPDATE
		`
		if err := tx.QueryRowContext(ctx, queryOwner, orderID, userID).Scan(&isRated); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotOwned
			}
			return fmt.Errorf("failed to query order owner: %w", err)
		}
		if isRated {
			return ErrAlreadyRated
		}

		queryInsertRating := `
			INSERT INTO product_ratings (order_id, product_id, rating)
			VALUES ($1, $2, $3)
		`
		for productID, rating := range ratings {
			if _, err := tx.ExecContext(ctx, queryInsertRating, orderID, productID, rating); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
					return ErrAlreadyRated
				}
				return fmt.Errorf("failed to insert rating: %w", err)
			}
		}

		if feedback = strings.TrimSpace(feedback); feedback != "" {
			queryFeedback := `
				INSERT INTO order_feedback (order_id, feedback)
				VALUES ($1, $2)
			`
			if _, err := tx.ExecContext(ctx, queryFeedback, orderID, feedback); err != nil {
				return fmt.Errorf("failed to insert feedback: %w", err)
			}
		}

		queryMarkRated := `
			UPDATE orders
			SET is_rated = TRUE
			WHERE id = $1 AND is_rated = FALSE
		`
		res, err := tx.ExecContext(ctx, queryMarkRated, orderID)
		if err != nil {
			return fmt.Errorf("failed to mark order rated: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrAlreadyRated
		}
		return nil
	})
}

// UpdateStatus applies a courier/staff transition. The target must be a
// staff-settable status and the order must currently sit in one of its
// lifecycle predecessors.
func (c *Conf) UpdateStatus(ctx context.Context, orderID int64, target Status) error {
	if !IsStaffTarget(target) {
		return ErrInvalidTransition
	}

	froms := predecessors(target)
	placeholders := make([]string, 0, len(froms))
	args := []any{target, orderID}
	for i, from := range froms {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, from)
	}

	queryAdvance := fmt.Sprintf(`
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND status IN (%s)
	`, strings.Join(placeholders, ", "))

	res, err := c.db.ExecContext(ctx, queryAdvance, args...)
	if err != nil {
		return fmt.Errorf("failed to advance order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// restockOrderItems adds every ordered quantity back to its product's stock.
func restockOrderItems(ctx context.Context, tx *sql.Tx, orderID int64) error {
	queryItems := `
		SELECT product_id, quantity
		FROM ordered_products
		WHERE order_id = $1
	`
	rows, err := tx.QueryContext(ctx, queryItems, orderID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	type line struct {
		productID int64
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	queryRestock := `
		UPDATE product_stocks
		SET quantity = quantity + $1
		WHERE product_id = $2
	`
	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, queryRestock, l.quantity, l.productID); err != nil {
			return fmt.Errorf("failed to restock product %d: %w", l.productID, err)
		}
	}
	return nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
