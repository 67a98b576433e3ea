package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		stock     int
		want      int
	}{
		{"within bounds", 3, 10, 3},
		{"above stock", 15, 10, 10},
		{"exactly stock", 10, 10, 10},
		{"zero requested", 0, 10, 1},
		{"negative requested", -4, 10, 1},
		{"single unit stock", 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampQuantity(tt.requested, tt.stock))
		})
	}
}
