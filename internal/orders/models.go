package orders

import "time"

// BillingInfo is the delivery/billing snapshot captured on the order header.
type BillingInfo struct {
	FullName        string `json:"fullName" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	Address         string `json:"address" validate:"required"`
	City            string `json:"city" validate:"required"`
	StateProvince   string `json:"stateProvince" validate:"required"`
	PostalCode      string `json:"postalCode" validate:"required"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
}

// NewOrderItem is one cart line submitted at checkout. Name and price are
// captured onto the order so later catalog changes cannot rewrite history.
type NewOrderItem struct {
	ID       int64   `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// NewOrder is the checkout payload.
type NewOrder struct {
	BillingInfo   BillingInfo    `json:"billingInfo" validate:"required"`
	PaymentMethod string         `json:"paymentMethod" validate:"required,oneof=GCash COD"`
	CartItems     []NewOrderItem `json:"cartItems" validate:"required,min=1,dive"`
	Subtotal      float64        `json:"subtotal" validate:"required,gt=0"`
	Delivery      float64        `json:"delivery" validate:"gte=0"`
	Total         float64        `json:"total" validate:"required,gt=0"`
}

// PlacedOrder is returned from a successful checkout.
type PlacedOrder struct {
	OrderID        int64  `json:"orderId"`
	TrackingNumber string `json:"trackingNumber"`
}

// Item is one line of a persisted order.
type Item struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// Detail is the full order view shown on the tracking page.
type Detail struct {
	OrderID        int64       `json:"orderId"`
	TrackingNumber string      `json:"trackingNumber"`
	Status         Status      `json:"status"`
	BillingInfo    BillingInfo `json:"billingInfo"`
	PaymentMethod  string      `json:"paymentMethod"`
	Items          []Item      `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	Delivery       float64     `json:"delivery"`
	Total          float64     `json:"total"`
}

// Summary is the compact order row for listings.
type Summary struct {
	ID             int64     `json:"id"`
	TrackingNumber string    `json:"tracking_number"`
	Status         Status    `json:"status"`
	OrderDate      time.Time `json:"order_date"`
	Total          float64   `json:"total"`
}

// HistoryEntry extends Summary with the rating flag and a display string of
// the ordered product names.
type HistoryEntry struct {
	Summary
	IsRated  bool   `json:"is_rated"`
	Products string `json:"products"`
}
