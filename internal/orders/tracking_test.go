package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingNumber(t *testing.T) {
	tn, err := newTrackingNumber()
	require.NoError(t, err)

	assert.Len(t, tn, 16)
	assert.Regexp(t, `^[0-9A-F]{16}$`, tn)
}

func TestNewTrackingNumber_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tn, err := newTrackingNumber()
		require.NoError(t, err)
		assert.False(t, seen[tn], "duplicate tracking number %s", tn)
		seen[tn] = true
	}
}
