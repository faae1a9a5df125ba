package domain

import "strconv"

// VariantSelection is the set of optional choices that distinguish otherwise
// identical products in the cart. Empty fields mean "no selection".
type VariantSelection struct {
	Scent string `json:"selectedMiris,omitempty" bson:"selected_miris,omitempty"`
	Color string `json:"selectedBoja,omitempty" bson:"selected_boja,omitempty"`
}

// CartLine is one purchasable unit selection. Identity is the product ID plus
// the variant selection; price fields are snapshots taken at add time and are
// never refreshed from the catalog afterwards.
//
// JSON field names match the persisted storefront layout, so a value written
// by any client sharing the store round-trips unchanged.
type CartLine struct {
	ProductID     string `json:"id" bson:"product_id"`
	Name          string `json:"naziv,omitempty" bson:"name,omitempty"`
	Price         string `json:"cijena,omitempty" bson:"price,omitempty"`
	DiscountPrice string `json:"novaCijena,omitempty" bson:"discount_price,omitempty"`
	Image         string `json:"slika,omitempty" bson:"image,omitempty"`
	Description   string `json:"opis,omitempty" bson:"description,omitempty"`
	Discount      int    `json:"popust,omitempty" bson:"discount,omitempty"`
	Available     bool   `json:"dostupnost,omitempty" bson:"available,omitempty"`
	Category      string `json:"kategorija,omitempty" bson:"category,omitempty"`
	Scent         string `json:"selectedMiris,omitempty" bson:"selected_miris,omitempty"`
	Color         string `json:"selectedBoja,omitempty" bson:"selected_boja,omitempty"`
	Quantity      int    `json:"quantity" bson:"quantity"`
}

// NewCartLine builds a quantity-1 line from a catalog product, snapshotting
// name, prices, image and the variant selection.
func NewCartLine(p Product, sel VariantSelection) CartLine {
	return CartLine{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Image:         p.Image,
		Description:   p.Description,
		Discount:      p.Discount,
		Available:     p.Available,
		Category:      p.Category,
		Scent:         sel.Scent,
		Color:         sel.Color,
		Quantity:      1,
	}
}

// Matches reports whether the line has the given identity. Two lines are the
// same entity iff product ID and every variant selection field match exactly,
// including both being absent.
func (l CartLine) Matches(productID string, sel VariantSelection) bool {
	return l.ProductID == productID && l.Scent == sel.Scent && l.Color == sel.Color
}

// Selection returns the line's own variant selection.
func (l CartLine) Selection() VariantSelection {
	return VariantSelection{Scent: l.Scent, Color: l.Color}
}

// EffectivePrice is the price a unit of this line contributes to the total:
// the discounted price when present and numeric, else the base price when
// numeric, else 0. Malformed price strings never propagate NaN.
func (l CartLine) EffectivePrice() float64 {
	if v, ok := parsePrice(l.DiscountPrice); ok {
		return v
	}
	if v, ok := parsePrice(l.Price); ok {
		return v
	}
	return 0
}

func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
