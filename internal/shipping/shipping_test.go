package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateShippingCost(t *testing.T) {
	assert.Equal(t, StandardCost, CalculateShippingCost(0))
	assert.Equal(t, StandardCost, CalculateShippingCost(49.99))
	assert.Equal(t, 0.0, CalculateShippingCost(50.00))
	assert.Equal(t, 0.0, CalculateShippingCost(120.00))
}

func TestIsFreeShipping(t *testing.T) {
	assert.False(t, IsFreeShipping(49.99))
	assert.True(t, IsFreeShipping(50.00))
	assert.True(t, IsFreeShipping(50.01))
}

func TestAmountUntilFreeShipping(t *testing.T) {
	assert.InDelta(t, 0.01, AmountUntilFreeShipping(49.99), 1e-9)
	assert.Equal(t, 0.0, AmountUntilFreeShipping(50.00))
	assert.Equal(t, 0.0, AmountUntilFreeShipping(75.00))
	assert.Equal(t, FreeShippingThreshold, AmountUntilFreeShipping(0))
}

// The three functions derive from one threshold constant and must agree for
// every subtotal.
func TestThresholdConsistency(t *testing.T) {
	for subtotal := 0.0; subtotal <= 100.0; subtotal += 0.25 {
		free := IsFreeShipping(subtotal)
		assert.Equal(t, free, CalculateShippingCost(subtotal) == 0, "subtotal %.2f", subtotal)
		assert.Equal(t, free, AmountUntilFreeShipping(subtotal) == 0, "subtotal %.2f", subtotal)
	}
}
