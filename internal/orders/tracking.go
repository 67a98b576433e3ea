package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// newTrackingNumber generates the opaque customer-facing order code:
// 16 uppercase hex characters, distinct from the internal order id.
func newTrackingNumber() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating tracking number: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
