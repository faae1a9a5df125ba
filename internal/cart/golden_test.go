package cart

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/stpauli98/CandleShop-sub000/internal/domain"
)

// The persisted cart layout is shared with every other client of the store,
// so the serialized form is pinned with a golden file. Regenerate with
// `go test ./internal/cart -run TestPersistedCartLayout -update` after a
// deliberate layout change.
func TestPersistedCartLayout(t *testing.T) {
	lines := []domain.CartLine{
		{
			ProductID: "svijeca-lavanda",
			Name:      "Lavanda",
			Price:     "12.50",
			Image:     "lavanda.jpg",
			Available: true,
			Category:  "mirisne",
			Scent:     "lavanda",
			Quantity:  2,
		},
		{
			ProductID:     "svijeca-vanilija",
			Name:          "Vanilija",
			Price:         "14.00",
			DiscountPrice: "11.20",
			Discount:      20,
			Quantity:      1,
		},
	}

	data, err := json.MarshalIndent(lines, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "persisted_cart", data)
}
