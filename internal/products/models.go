package products

// Product is a catalog row joined with its rating aggregate and stock level.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
	Stock       int     `json:"stock_quantity"`
}

// Category is a distinct product category usable as a browse filter.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
