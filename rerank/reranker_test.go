package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/homematch/core"
)

func TestNewReranker(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := NewReranker()

		assert.Equal(t, DefaultWeights(), r.weights)
		assert.False(t, r.keepZeroScored)
	})

	t.Run("with custom weights", func(t *testing.T) {
		w := Weights{Base: 10, BudgetCap: 5, SizeCap: 4, RoomMatch: 2, AmenityMatch: 1}
		r := NewReranker(WithWeights(w))

		assert.Equal(t, w, r.weights)
	})

	t.Run("with zero scored kept", func(t *testing.T) {
		r := NewReranker(WithZeroScored(true))

		assert.True(t, r.keepZeroScored)
	})
}

func TestReranker_Score(t *testing.T) {
	r := NewReranker()

	t.Run("city mismatch disqualifies outright", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "Munich", Price: 450000, SquareFeet: 1200}
		p := &core.UserPreferences{City: "Berlin", Budget: 450000, SquareFeet: 1200}

		assert.Equal(t, 0.0, r.Score(l, p))
	})

	t.Run("city comparison is case-insensitive", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "BERLIN"}
		p := &core.UserPreferences{City: "berlin"}

		assert.Equal(t, 5.0, r.Score(l, p))
	})

	t.Run("no preferences scores the base weight", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "Berlin", Price: 450000}

		assert.Equal(t, 5.0, r.Score(l, &core.UserPreferences{}))
	})

	t.Run("exact budget earns the full proximity weight", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "Berlin", Price: 450000}
		p := &core.UserPreferences{Budget: 450000}

		assert.Equal(t, 8.0, r.Score(l, p))
	})

	t.Run("distant price degrades toward zero without going negative", func(t *testing.T) {
		// near is at 3x the budget, far at 10x.
		near := &core.Listing{Title: "t", Location: "Berlin", Price: 1350000}
		far := &core.Listing{Title: "t", Location: "Berlin", Price: 4500000}
		p := &core.UserPreferences{Budget: 450000}

		assert.InDelta(t, 6.0, r.Score(near, p), 1e-9)
		// The proximity term clamps at zero instead of going negative.
		assert.Equal(t, 5.0, r.Score(far, p))
	})

	t.Run("exact size earns the full proximity weight", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "Berlin", SquareFeet: 1200}
		p := &core.UserPreferences{SquareFeet: 1200}

		assert.Equal(t, 7.0, r.Score(l, p))
	})

	t.Run("unsupplied numbers contribute nothing", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "Berlin", Price: 450000, SquareFeet: 1200}

		// No budget or size preference: proximity terms stay out entirely.
		assert.Equal(t, 5.0, r.Score(l, &core.UserPreferences{}))
	})

	t.Run("room counts match verbatim in the feature text", func(t *testing.T) {
		l := &core.Listing{Title: "t", Location: "Berlin", Bedrooms: 3, Bathrooms: 2}

		p := &core.UserPreferences{Features: "3 bedrooms and a garden"}
		assert.Equal(t, 6.0, r.Score(l, p))

		p = &core.UserPreferences{Features: "3 bedrooms, 2 bathrooms"}
		assert.Equal(t, 7.0, r.Score(l, p))

		p = &core.UserPreferences{Features: "a quiet garden"}
		assert.Equal(t, 5.0, r.Score(l, p))
	})

	t.Run("amenity overlap counts each shared amenity", func(t *testing.T) {
		l := &core.Listing{
			Title:     "t",
			Location:  "Berlin",
			Amenities: []string{"balcony", "parking", "elevator"},
		}
		p := &core.UserPreferences{Amenities: []string{"parking", "balcony", "sauna"}}

		assert.Equal(t, 6.0, r.Score(l, p))
	})

	t.Run("duplicate amenities count once", func(t *testing.T) {
		l := &core.Listing{
			Title:     "t",
			Location:  "Berlin",
			Amenities: []string{"balcony", "balcony"},
		}
		p := &core.UserPreferences{Amenities: []string{"balcony", "balcony"}}

		assert.Equal(t, 5.5, r.Score(l, p))
	})

	t.Run("custom weights flow through", func(t *testing.T) {
		custom := NewReranker(WithWeights(Weights{Base: 1, BudgetCap: 1, SizeCap: 1, RoomMatch: 1, AmenityMatch: 1}))
		l := &core.Listing{Title: "t", Location: "Berlin", Price: 100}
		p := &core.UserPreferences{Budget: 100}

		assert.Equal(t, 2.0, custom.Score(l, p))
	})
}

func TestReranker_Rerank(t *testing.T) {
	t.Run("empty input yields empty shortlist", func(t *testing.T) {
		r := NewReranker()

		got := r.Rerank(nil, &core.UserPreferences{}, 3)
		assert.Empty(t, got)
	})

	t.Run("orders by score descending", func(t *testing.T) {
		r := NewReranker()
		near := &core.Listing{Title: "near", Location: "Berlin", Price: 450000}
		off := &core.Listing{Title: "off", Location: "Berlin", Price: 900000}

		got := r.Rerank([]*core.Listing{off, near}, &core.UserPreferences{Budget: 450000}, 3)

		require.Len(t, got, 2)
		assert.Equal(t, "near", got[0].Listing.Title)
		assert.Equal(t, "off", got[1].Listing.Title)
		assert.Greater(t, got[0].Score, got[1].Score)
	})

	t.Run("ties keep candidate order", func(t *testing.T) {
		r := NewReranker()
		first := &core.Listing{Title: "first", Location: "Berlin"}
		second := &core.Listing{Title: "second", Location: "Berlin"}
		third := &core.Listing{Title: "third", Location: "Berlin"}

		got := r.Rerank([]*core.Listing{first, second, third}, &core.UserPreferences{}, 3)

		require.Len(t, got, 3)
		assert.Equal(t, "first", got[0].Listing.Title)
		assert.Equal(t, "second", got[1].Listing.Title)
		assert.Equal(t, "third", got[2].Listing.Title)
	})

	t.Run("truncates to topN", func(t *testing.T) {
		r := NewReranker()
		candidates := []*core.Listing{
			{Title: "a", Location: "Berlin"},
			{Title: "b", Location: "Berlin"},
			{Title: "c", Location: "Berlin"},
		}

		got := r.Rerank(candidates, &core.UserPreferences{}, 2)
		assert.Len(t, got, 2)
	})

	t.Run("non-positive topN uses the default", func(t *testing.T) {
		r := NewReranker()
		candidates := []*core.Listing{
			{Title: "a", Location: "Berlin"},
			{Title: "b", Location: "Berlin"},
			{Title: "c", Location: "Berlin"},
			{Title: "d", Location: "Berlin"},
		}

		got := r.Rerank(candidates, &core.UserPreferences{}, 0)
		assert.Len(t, got, DefaultTopN)
	})

	t.Run("zero-scored candidates are dropped by default", func(t *testing.T) {
		r := NewReranker()
		candidates := []*core.Listing{
			{Title: "match", Location: "Berlin"},
			{Title: "wrong city", Location: "Munich"},
		}

		got := r.Rerank(candidates, &core.UserPreferences{City: "Berlin"}, 3)

		require.Len(t, got, 1)
		assert.Equal(t, "match", got[0].Listing.Title)
	})

	t.Run("nothing viable yields an empty shortlist", func(t *testing.T) {
		r := NewReranker()
		candidates := []*core.Listing{
			{Title: "a", Location: "Munich"},
			{Title: "b", Location: "Hamburg"},
		}

		got := r.Rerank(candidates, &core.UserPreferences{City: "Berlin"}, 3)
		assert.Empty(t, got)
	})

	t.Run("WithZeroScored keeps disqualified candidates in rank order", func(t *testing.T) {
		r := NewReranker(WithZeroScored(true))
		candidates := []*core.Listing{
			{Title: "wrong city", Location: "Munich"},
			{Title: "match", Location: "Berlin"},
		}

		got := r.Rerank(candidates, &core.UserPreferences{City: "Berlin"}, 3)

		require.Len(t, got, 2)
		assert.Equal(t, "match", got[0].Listing.Title)
		assert.Equal(t, "wrong city", got[1].Listing.Title)
		assert.Equal(t, 0.0, got[1].Score)
	})
}

// The canonical end-to-end ranking scenario: five candidates, two in the
// preferred city, the better-fitting one first, and out-of-city candidates
// never outrank an in-city one.
func TestReranker_Rerank_CityScenario(t *testing.T) {
	berlinClose := &core.Listing{Title: "berlin close", Location: "Berlin", Price: 440000, SquareFeet: 1180}
	berlinBig := &core.Listing{Title: "berlin big", Location: "Berlin", Price: 600000, SquareFeet: 2000}
	candidates := []*core.Listing{
		{Title: "munich 1", Location: "Munich", Price: 450000, SquareFeet: 1200},
		berlinClose,
		{Title: "munich 2", Location: "Munich", Price: 440000, SquareFeet: 1180},
		berlinBig,
		{Title: "munich 3", Location: "Munich", Price: 430000, SquareFeet: 1150},
	}
	p := &core.UserPreferences{Budget: 450000, City: "Berlin", SquareFeet: 1200}

	t.Run("default policy returns only the viable pair", func(t *testing.T) {
		got := NewReranker().Rerank(candidates, p, 3)

		require.Len(t, got, 2)
		assert.Equal(t, "berlin close", got[0].Listing.Title)
		assert.Equal(t, "berlin big", got[1].Listing.Title)
		assert.Greater(t, got[0].Score, got[1].Score)
		assert.Greater(t, got[1].Score, 0.0)
	})

	t.Run("keeping zero-scored admits at most one trailing outsider", func(t *testing.T) {
		got := NewReranker(WithZeroScored(true)).Rerank(candidates, p, 3)

		require.Len(t, got, 3)
		assert.Equal(t, "berlin close", got[0].Listing.Title)
		assert.Equal(t, "berlin big", got[1].Listing.Title)

		// The tail slot holds a single zero-scored Munich listing; no
		// out-of-city candidate ranks above an in-city one.
		assert.Equal(t, "Munich", got[2].Listing.Location)
		assert.Equal(t, 0.0, got[2].Score)
	})
}
