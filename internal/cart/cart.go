// Package cart persists one active cart per user. Quantities are clamped to
// the recorded stock on every mutation; the cart row is locked while it is
// being changed so two requests from the same user cannot interleave.
package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNoActiveCart = errors.New("no active cart for user")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// AddItem merges the quantity into the user's active cart, creating the cart
// on first use. The resulting line quantity is clamped to [1, stock].
func (c *Conf) AddItem(ctx context.Context, userID int64, productID int64, quantity int) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		var stock int
		queryStock := `
			SELECT COALESCE(MAX(quantity), 0)
			FROM product_stocks
			WHERE product_id = $1
		`
		if err := tx.QueryRowContext(ctx, queryStock, productID).Scan(&stock); err != nil {
			return fmt.Errorf("failed to query stock: %w", err)
		}
		if stock < 1 {
			return fmt.Errorf("product %d is out of stock", productID)
		}

		queryItem := `
			SELECT id, quantity
			FROM cart_items
			WHERE cart_id = $1 AND product_id = $2
		`
		var itemID int64
		var existing int
		err = tx.QueryRowContext(ctx, queryItem, cartID, productID).Scan(&itemID, &existing)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to query cart item: %w", err)
			}
			queryInsert := `
				INSERT INTO cart_items (cart_id, product_id, quantity)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.ExecContext(ctx, queryInsert, cartID, productID, clampQuantity(quantity, stock)); err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
			return nil
		}

		queryUpdate := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, queryUpdate, clampQuantity(existing+quantity, stock), itemID); err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	})
}

// UpdateQuantity sets a line's quantity, clamped to [1, stock].
func (c *Conf) UpdateQuantity(ctx context.Context, userID int64, productID int64, quantity int) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID, false)
		if err != nil {
			return err
		}

		var stock int
		queryStock := `
			SELECT COALESCE(MAX(quantity), 0)
			FROM product_stocks
			WHERE product_id = $1
		`
		if err := tx.QueryRowContext(ctx, queryStock, productID).Scan(&stock); err != nil {
			return fmt.Errorf("failed to query stock: %w", err)
		}
		if stock < 1 {
			return fmt.Errorf("product %d is out of stock", productID)
		}

		queryUpdate := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE cart_id = $2 AND product_id = $3
		`
		res, err := tx.ExecContext(ctx, queryUpdate, clampQuantity(quantity, stock), cartID, productID)
		if err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("product %d is not in the cart", productID)
		}
		return nil
	})
}

// RemoveItem deletes a line from the active cart.
func (c *Conf) RemoveItem(ctx context.Context, userID int64, productID int64) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID, false)
		if err != nil {
			return err
		}

		queryDelete := `
			DELETE FROM cart_items
			WHERE cart_id = $1 AND product_id = $2
		`
		if _, err := tx.ExecContext(ctx, queryDelete, cartID, productID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
}

// Clear removes every line from the active cart.
func (c *Conf) Clear(ctx context.Context, userID int64) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID, false)
		if err != nil {
			return err
		}

		queryDelete := `DELETE FROM cart_items WHERE cart_id = $1`
		if _, err := tx.ExecContext(ctx, queryDelete, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

// MarkOrdered retires the active cart after a successful checkout.
func (c *Conf) MarkOrdered(ctx context.Context, userID int64) error {
	queryUpdate := `
		UPDATE carts
		SET status = 'ordered', updated_at = NOW()
		WHERE user_id = $1 AND status = 'active'
	`
	if _, err := c.db.ExecContext(ctx, queryUpdate, userID); err != nil {
		return fmt.Errorf("failed to retire cart: %w", err)
	}
	return nil
}

// GetActiveItems returns the lines of the user's active cart joined with the
// current catalog details. An absent cart reads as empty.
func (c *Conf) GetActiveItems(ctx context.Context, userID int64) (*Response, error) {
	queryItems := `
		SELECT ci.product_id, p.name, p.price, ci.quantity,
		       COALESCE(MAX(ps.quantity), 0) AS stock_quantity, p.image_url
		FROM carts c
		JOIN cart_items ci ON ci.cart_id = c.id
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN product_stocks ps ON ps.product_id = ci.product_id
		WHERE c.user_id = $1 AND c.status = 'active'
		GROUP BY ci.product_id, p.name, p.price, ci.quantity, p.image_url
		ORDER BY p.name
	`
	rows, err := c.db.QueryContext(ctx, queryItems, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Stock, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &Response{Items: items}, nil
}

// activeCartForUpdate locks and returns the user's active cart row. With
// create set, a missing cart is created instead of reported.
func activeCartForUpdate(ctx context.Context, tx *sql.Tx, userID int64, create bool) (int64, error) {
	var cartID int64
	queryActiveCart := `
		SELECT id
		FROM carts
		WHERE user_id = $1 AND status = 'active'
		FOR UPDATE
	`
	err := tx.QueryRowContext(ctx, queryActiveCart, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query active cart: %w", err)
	}
	if !create {
		return 0, ErrNoActiveCart
	}

	queryCreateCart := `
		INSERT INTO carts (user_id, status)
		VALUES ($1, 'active')
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, queryCreateCart, userID).Scan(&cartID); err != nil {
		return 0, fmt.Errorf("failed to create new cart: %w", err)
	}
	return cartID, nil
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
