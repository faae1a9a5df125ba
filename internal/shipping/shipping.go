// Package shipping is the storefront's flat shipping policy: one threshold,
// one standard cost, everything else derived.
package shipping

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 50.00

	// StandardCost is the flat shipping cost below the threshold.
	StandardCost = 5.00
)

// CalculateShippingCost returns the shipping cost for the given subtotal.
func CalculateShippingCost(subtotal float64) float64 {
	if subtotal < FreeShippingThreshold {
		return StandardCost
	}
	return 0
}

// IsFreeShipping reports whether the subtotal qualifies for free shipping.
func IsFreeShipping(subtotal float64) bool {
	return subtotal >= FreeShippingThreshold
}

// AmountUntilFreeShipping returns how much more the subtotal needs to reach
// free shipping, never negative.
func AmountUntilFreeShipping(subtotal float64) float64 {
	if remaining := FreeShippingThreshold - subtotal; remaining > 0 {
		return remaining
	}
	return 0
}
