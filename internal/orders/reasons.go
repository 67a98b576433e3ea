package orders

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownReason = errors.New("unknown return reason")

// returnReason couples a return-reason code with its display label and
// whether a return for that reason puts the goods back into sellable stock.
// Defective or incomplete items cannot be resold, everything else can.
type returnReason struct {
	label   string
	restock bool
}

var returnReasons = map[string]returnReason{
	"defective":   {label: "Defective or Damaged Product", restock: false},
	"wrong_item":  {label: "Received Wrong Item", restock: true},
	"quality":     {label: "Quality Not as Expected", restock: true},
	"incomplete":  {label: "Incomplete Set/Missing Parts", restock: false},
	"size_issue":  {label: "Size/Dimension Issue", restock: true},
	"packaging":   {label: "Damaged Packaging", restock: true},
	"duplicate":   {label: "Duplicate/Multiple Orders", restock: true},
	"performance": {label: "Poor Performance/Not Working as Described", restock: true},
	"other":       {label: "Other Reason", restock: true},
}

// describeReasons validates the submitted reason codes and returns the
// display labels plus whether the returned quantities should be restocked.
// Restocking happens when at least one submitted reason is resellable.
func describeReasons(codes []string) ([]string, bool, error) {
	if len(codes) == 0 {
		return nil, false, fmt.Errorf("at least one return reason is required")
	}

	labels := make([]string, 0, len(codes))
	restock := false
	for _, code := range codes {
		reason, ok := returnReasons[code]
		if !ok {
			return nil, false, fmt.Errorf("%w: %q", ErrUnknownReason, code)
		}
		labels = append(labels, reason.label)
		if reason.restock {
			restock = true
		}
	}

	return labels, restock, nil
}

// reasonFeedback renders the stored feedback line for a return: the display
// labels joined with "; ", followed by the shopper's free-text comment.
func reasonFeedback(labels []string, comment string) string {
	text := strings.Join(labels, "; ")
	if comment = strings.TrimSpace(comment); comment != "" {
		text += "; " + comment
	}
	return text
}
