package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"placed to processing", StatusPlaced, StatusProcessing, true},
		{"placed to cancelled", StatusPlaced, StatusCancelled, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"delivered to received", StatusDelivered, StatusReceived, true},
		{"delivered to returned", StatusDelivered, StatusReturned, true},
		{"received to returned", StatusReceived, StatusReturned, true},
		{"returned to refunded", StatusReturned, StatusRefunded, true},
		{"returned to return cancelled", StatusReturned, StatusReturnCancelled, true},

		{"shipped cannot be cancelled", StatusShipped, StatusCancelled, false},
		{"processing cannot be cancelled", StatusProcessing, StatusCancelled, false},
		{"placed cannot skip to delivered", StatusPlaced, StatusDelivered, false},
		{"placed cannot be returned", StatusPlaced, StatusReturned, false},
		{"cancelled is final", StatusCancelled, StatusPlaced, false},
		{"refunded is final", StatusRefunded, StatusReturned, false},
		{"received cannot be received again", StatusReceived, StatusReceived, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCancelled))
	assert.True(t, IsTerminal(StatusRefunded))
	assert.True(t, IsTerminal(StatusReturnCancelled))

	assert.False(t, IsTerminal(StatusPlaced))
	assert.False(t, IsTerminal(StatusDelivered))
	// Received still allows a return request, so the machine does not treat
	// it as final.
	assert.False(t, IsTerminal(StatusReceived))
}

func TestIsStaffTarget(t *testing.T) {
	assert.True(t, IsStaffTarget(StatusProcessing))
	assert.True(t, IsStaffTarget(StatusShipped))
	assert.True(t, IsStaffTarget(StatusDelivered))
	assert.True(t, IsStaffTarget(StatusRefunded))
	assert.True(t, IsStaffTarget(StatusReturnCancelled))

	// Customer-driven statuses stay out of staff hands.
	assert.False(t, IsStaffTarget(StatusCancelled))
	assert.False(t, IsStaffTarget(StatusReceived))
	assert.False(t, IsStaffTarget(StatusReturned))
	assert.False(t, IsStaffTarget(StatusPlaced))
}

func TestPredecessors(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusPlaced}, predecessors(StatusProcessing))
	assert.ElementsMatch(t, []Status{StatusShipped}, predecessors(StatusDelivered))
	assert.ElementsMatch(t, []Status{StatusDelivered, StatusReceived}, predecessors(StatusReturned))
	assert.ElementsMatch(t, []Status{StatusReturned}, predecessors(StatusRefunded))
	assert.Empty(t, predecessors(StatusPlaced))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("Order Placed")
	assert.True(t, ok)
	assert.Equal(t, StatusPlaced, s)

	s, ok = ParseStatus("Return Cancelled")
	assert.True(t, ok)
	assert.Equal(t, StatusReturnCancelled, s)

	_, ok = ParseStatus("Paid")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}
