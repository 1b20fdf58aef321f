package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOvertimeDelta(t *testing.T) {
	tests := []struct {
		name     string
		net      int
		target   int
		expected int
	}{
		{name: "exactly on target", net: 480, target: 480, expected: 0},
		{name: "one hour over", net: 540, target: 480, expected: 60},
		{name: "short day", net: 300, target: 480, expected: -180},
		{name: "zero net books the full deficit", net: 0, target: 480, expected: -480},
		{name: "reduced friday target", net: 360, target: 360, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OvertimeDelta(tt.net, tt.target))
		})
	}
}

// Approving a modify_time correction books newDelta-oldDelta on top of
// the already applied oldDelta. Whatever the numbers, the balance must
// end up as if newDelta had been applied in the first place.
func TestCorrectionAdjustmentReversesOriginalDelta(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		target := 480
		originalNet := rng.Intn(700)
		correctedNet := rng.Intn(700)

		balance := OvertimeDelta(originalNet, target)
		adjustment := OvertimeDelta(correctedNet, target) - OvertimeDelta(originalNet, target)
		balance += adjustment

		assert.Equal(t, OvertimeDelta(correctedNet, target), balance)
	}
}

// Cancelling a block books the negated applied delta, returning the
// balance to its pre-block value.
func TestCancelBlockRestoresBalance(t *testing.T) {
	before := 120
	applied := OvertimeDelta(510, 480)

	balance := before + applied
	balance += -applied

	assert.Equal(t, before, balance)
}
