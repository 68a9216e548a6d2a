package openai

import (
	"log/slog"
	"testing"

	"github.com/poiesic/homematch/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneration(t *testing.T) {
	t.Run("clean response", func(t *testing.T) {
		result, err := parseGeneration(`{"listings": [{"title": "Loft"}, {"title": "Villa"}]}`)
		require.NoError(t, err)
		require.Len(t, result.Listings, 2)
		assert.Equal(t, "Loft", result.Listings[0].Title)
		assert.Equal(t, "Villa", result.Listings[1].Title)
	})

	t.Run("markdown fences stripped", func(t *testing.T) {
		result, err := parseGeneration("```json\n{\"listings\": [{\"title\": \"Loft\"}]}\n```")
		require.NoError(t, err)
		require.Len(t, result.Listings, 1)
		assert.Equal(t, "Loft", result.Listings[0].Title)
	})

	t.Run("trailing commas repaired", func(t *testing.T) {
		result, err := parseGeneration(`{"listings": [{"title": "Loft", "amenities": ["Balcony",]},]}`)
		require.NoError(t, err)
		require.Len(t, result.Listings, 1)
	})

	t.Run("unparsable response", func(t *testing.T) {
		_, err := parseGeneration("I'm sorry, I can't produce listings right now.")
		assert.Error(t, err)
	})

	t.Run("empty listings", func(t *testing.T) {
		result, err := parseGeneration(`{"listings": []}`)
		require.NoError(t, err)
		assert.Empty(t, result.Listings)
	})
}

func TestListingGenerator_Coerce(t *testing.T) {
	// Deterministic source: every randomized default bottoms out at its minimum.
	g := &ListingGenerator{
		norm:   prefs.NewNormalizer(prefs.WithRand(func(n int) int { return 0 })),
		logger: slog.Default(),
	}

	t.Run("typed fields pass through", func(t *testing.T) {
		got := g.coerce("Berlin", generatedListing{
			Title:      "  Sunlit Loft ",
			Location:   "Berlin",
			Price:      485000.0,
			SquareFeet: 980.0,
			Bedrooms:   2.0,
			Bathrooms:  1.0,
			Amenities:  []any{"Balcony", " Garage ", 7},
		})

		assert.Equal(t, "Sunlit Loft", got.Title)
		assert.Equal(t, "Berlin", got.Location)
		assert.Equal(t, 485000.0, got.Price)
		assert.Equal(t, 980.0, got.SquareFeet)
		assert.Equal(t, 2, got.Bedrooms)
		assert.Equal(t, 1, got.Bathrooms)
		assert.Equal(t, []string{"Balcony", "Garage"}, got.Amenities)
	})

	t.Run("quoted numbers with decoration", func(t *testing.T) {
		got := g.coerce("Berlin", generatedListing{
			Title:      "Loft",
			Price:      "$485,000",
			SquareFeet: "980 sq ft",
			Bedrooms:   "3",
			Bathrooms:  "2",
		})

		assert.Equal(t, 485000.0, got.Price)
		assert.Equal(t, 980.0, got.SquareFeet)
		assert.Equal(t, 3, got.Bedrooms)
		assert.Equal(t, 2, got.Bathrooms)
	})

	t.Run("missing fields get defaults", func(t *testing.T) {
		got := g.coerce("Munich", generatedListing{Title: "Loft"})

		assert.Equal(t, "Munich", got.Location)
		assert.Equal(t, 100000.0, got.Price)
		assert.Equal(t, 1000.0, got.SquareFeet)
		assert.Equal(t, 1, got.Bedrooms)
		assert.Equal(t, 1, got.Bathrooms)
		assert.Empty(t, got.Amenities)
	})

	t.Run("bare amenity string becomes singleton", func(t *testing.T) {
		got := g.coerce("Berlin", generatedListing{
			Title:     "Loft",
			Amenities: "Balcony, Garden",
		})

		assert.Equal(t, []string{"Balcony, Garden"}, got.Amenities)
	})

	t.Run("fractional square feet kept", func(t *testing.T) {
		got := g.coerce("Berlin", generatedListing{
			Title:      "Loft",
			SquareFeet: 980.5,
		})

		assert.Equal(t, 980.5, got.SquareFeet)
	})
}
