package orders

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNewOrder() NewOrder {
	return NewOrder{
		BillingInfo: BillingInfo{
			FullName:        "Juan Dela Cruz",
			PhoneNumber:     "09171234567",
			Address:         "123 Rizal St",
			City:            "Cebu City",
			StateProvince:   "Cebu",
			PostalCode:      "6000",
			DeliveryAddress: "123 Rizal St, Cebu City",
		},
		PaymentMethod: "GCash",
		CartItems: []NewOrderItem{
			{ID: 1, Name: "Notebook", Quantity: 2, Price: 45.50},
		},
		Subtotal: 91.00,
		Delivery: 60.00,
		Total:    151.00,
	}
}

func TestNewOrderValidation(t *testing.T) {
	validate := validator.New()

	require.NoError(t, validate.Struct(validNewOrder()))

	tests := []struct {
		name   string
		mutate func(*NewOrder)
	}{
		{"missing full name", func(no *NewOrder) { no.BillingInfo.FullName = "" }},
		{"missing phone number", func(no *NewOrder) { no.BillingInfo.PhoneNumber = "" }},
		{"missing delivery address", func(no *NewOrder) { no.BillingInfo.DeliveryAddress = "" }},
		{"unsupported payment method", func(no *NewOrder) { no.PaymentMethod = "PayPal" }},
		{"empty cart", func(no *NewOrder) { no.CartItems = nil }},
		{"zero quantity line", func(no *NewOrder) { no.CartItems[0].Quantity = 0 }},
		{"zero price line", func(no *NewOrder) { no.CartItems[0].Price = 0 }},
		{"zero total", func(no *NewOrder) { no.Total = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			no := validNewOrder()
			tt.mutate(&no)
			assert.Error(t, validate.Struct(no))
		})
	}
}

func TestNewOrderAcceptsBothPaymentMethods(t *testing.T) {
	validate := validator.New()

	for _, method := range []string{"GCash", "COD"} {
		no := validNewOrder()
		no.PaymentMethod = method
		assert.NoError(t, validate.Struct(no), method)
	}
}
