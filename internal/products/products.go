// Package products is the read-only catalog: product rows joined with their
// rating aggregate and stock level. Every call hits the store directly.
package products

import (
	"context"
	"database/sql"
	"fmt"
)

// LimitedItemsCategory is the designated category surfaced on its own page.
const LimitedItemsCategory = "Limited Items"

// When a product has no ratings yet its average displays as 5.
const defaultRating = 5

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

const productSelect = `
	SELECT
		p.id,
		p.name,
		p.description,
		p.price,
		p.image_url,
		p.category,
		COALESCE(AVG(pr.rating), %d) AS avg_rating,
		COUNT(pr.id) AS rating_count,
		COALESCE(MAX(ps.quantity), 0) AS stock_quantity
	FROM products p
	LEFT JOIN product_ratings pr ON pr.product_id = p.id
	LEFT JOIN product_stocks ps ON ps.product_id = p.id
	WHERE p.deleted = FALSE`

const productGroupBy = `
	GROUP BY p.id
	ORDER BY p.name`

// ListProducts returns the whole visible catalog.
func (c *Conf) ListProducts(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf(productSelect, defaultRating) + productGroupBy
	return c.queryProducts(ctx, query)
}

// ListByCategory returns visible products for one category.
func (c *Conf) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	query := fmt.Sprintf(productSelect, defaultRating) + ` AND p.category = $1` + productGroupBy
	return c.queryProducts(ctx, query, category)
}

// ListLimitedItems returns the designated limited-items category.
func (c *Conf) ListLimitedItems(ctx context.Context) ([]Product, error) {
	return c.ListByCategory(ctx, LimitedItemsCategory)
}

// Search matches every whitespace-split term against name or category.
func (c *Conf) Search(ctx context.Context, rawQuery string) ([]Product, error) {
	terms := splitSearchTerms(rawQuery)
	if len(terms) == 0 {
		return nil, fmt.Errorf("search query is empty")
	}

	predicate, args := buildSearchPredicate(terms, 1)
	query := fmt.Sprintf(productSelect, defaultRating) + ` AND (` + predicate + `)` + productGroupBy
	return c.queryProducts(ctx, query, args...)
}

// ListCategories returns the distinct browseable categories. Limited items
// have their own page and are excluded here.
func (c *Conf) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT DISTINCT category
		FROM products
		WHERE deleted = FALSE AND category <> $1
		ORDER BY category
	`
	rows, err := c.db.QueryContext(ctx, query, LimitedItemsCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, Category{ID: name, Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (c *Conf) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
			&p.Category, &p.AvgRating, &p.RatingCount, &p.Stock,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
