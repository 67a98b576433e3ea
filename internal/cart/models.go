package cart

// Item is one product line in a user's active cart.
type Item struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock_quantity"`
	ImageURL  string  `json:"image_url"`
}

// Response wraps the items of the active cart.
type Response struct {
	Items []Item `json:"items"`
}

// clampQuantity bounds a requested quantity to [1, stock]. A cart line never
// holds more than the recorded stock and never less than one unit.
func clampQuantity(requested, stock int) int {
	if requested < 1 {
		return 1
	}
	if requested > stock {
		return stock
	}
	return requested
}
