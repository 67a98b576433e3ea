package orders

// Status is an order's position in its lifecycle. The zero flow runs
// Order Placed -> Processing -> Shipped -> Delivered -> Received; Cancelled
// branches off Order Placed, and a return moves Delivered/Received orders to
// Returned, which staff resolve to Refunded or Return Cancelled.
type Status string

const (
	StatusPlaced          Status = "Order Placed"
	StatusProcessing      Status = "Processing"
	StatusShipped         Status = "Shipped"
	StatusDelivered       Status = "Delivered"
	StatusReceived        Status = "Received"
	StatusCancelled       Status = "Cancelled"
	StatusReturned        Status = "Returned"
	StatusRefunded        Status = "Refunded"
	StatusReturnCancelled Status = "Return Cancelled"
)

var transitions = map[Status][]Status{
	StatusPlaced:     {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusReceived, StatusReturned},
	StatusReceived:   {StatusReturned},
	StatusReturned:   {StatusRefunded, StatusReturnCancelled},
}

// staffTargets are the statuses couriers/staff may set; customers reach the
// remaining statuses through the dedicated cancel/receive/return operations.
var staffTargets = map[Status]bool{
	StatusProcessing:      true,
	StatusShipped:         true,
	StatusDelivered:       true,
	StatusRefunded:        true,
	StatusReturnCancelled: true,
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is defined for a status.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// IsStaffTarget reports whether staff may set the given status directly.
func IsStaffTarget(s Status) bool {
	return staffTargets[s]
}

// predecessors returns every status from which the target is reachable in
// one step.
func predecessors(to Status) []Status {
	var froms []Status
	for from, nexts := range transitions {
		for _, next := range nexts {
			if next == to {
				froms = append(froms, from)
			}
		}
	}
	return froms
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPlaced, StatusProcessing, StatusShipped, StatusDelivered,
		StatusReceived, StatusCancelled, StatusReturned, StatusRefunded,
		StatusReturnCancelled:
		return Status(raw), true
	}
	return "", false
}
