package cart

import "github.com/stpauli98/CandleShop-sub000/internal/domain"

// ItemCount sums quantities across all lines. Empty cart yields 0.
func ItemCount(lines []domain.CartLine) int {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// Total sums quantity times effective price across all lines. Lines with
// malformed price strings contribute 0; the result is never NaN.
func Total(lines []domain.CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += float64(l.Quantity) * l.EffectivePrice()
	}
	return total
}
