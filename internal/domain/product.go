package domain

// Product is a catalog record as supplied by the product-catalog collaborator.
// The cart snapshots these fields at add time and never re-queries the catalog
// to refresh prices already in the cart.
type Product struct {
	ID            string   `json:"id" bson:"_id,omitempty"`
	Name          string   `json:"naziv" bson:"name"`
	Price         string   `json:"cijena" bson:"price"`
	DiscountPrice string   `json:"novaCijena,omitempty" bson:"discount_price,omitempty"`
	Discount      int      `json:"popust,omitempty" bson:"discount,omitempty"`
	Image         string   `json:"slika,omitempty" bson:"image,omitempty"`
	Description   string   `json:"opis,omitempty" bson:"description,omitempty"`
	Category      string   `json:"kategorija,omitempty" bson:"category,omitempty"`
	Available     bool     `json:"dostupnost" bson:"available"`
	Scents        []string `json:"mirisi,omitempty" bson:"scents,omitempty"`
	Colors        []string `json:"boje,omitempty" bson:"colors,omitempty"`
}
