package storage

import (
	"testing"
	"time"

	"github.com/poiesic/homematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("Sunlit Loft|Berlin|Bright and quiet.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalListing(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	original := &core.Listing{
		Id:                      core.ID(999),
		Title:                   "Sunlit Altbau Apartment",
		Location:                "Berlin",
		Neighborhood:            "Prenzlauer Berg",
		Price:                   485000,
		SquareFeet:              980.5,
		Bedrooms:                2,
		Bathrooms:               1,
		Amenities:               []string{"Balcony", "Elevator"},
		Description:             "Tall windows fill the living room with light. Üppige Gärten.",
		NeighborhoodDescription: "Leafy streets with cafes on every corner.",
		Vector:                  []float32{0.1, 0.2, 0.3, 0.4, 0.5},
		InsertedAt:              now,
		UpdatedAt:               now,
	}

	data := MarshalListing(original)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalListing(data)
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.Equal(t, original.Id, decoded.Id)
	assert.Equal(t, original.Title, decoded.Title)
	assert.Equal(t, original.Location, decoded.Location)
	assert.Equal(t, original.Neighborhood, decoded.Neighborhood)
	assert.Equal(t, original.Price, decoded.Price)
	assert.Equal(t, original.SquareFeet, decoded.SquareFeet)
	assert.Equal(t, original.Bedrooms, decoded.Bedrooms)
	assert.Equal(t, original.Bathrooms, decoded.Bathrooms)
	assert.Equal(t, original.Amenities, decoded.Amenities)
	assert.Equal(t, original.Description, decoded.Description)
	assert.Equal(t, original.NeighborhoodDescription, decoded.NeighborhoodDescription)
	assert.Equal(t, original.Vector, decoded.Vector)
	assert.True(t, original.InsertedAt.Equal(decoded.InsertedAt))
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestMarshalUnmarshalListing_SparseFields(t *testing.T) {
	// Listings straight from a CSV have no vector, timestamps, or neighborhood text.
	original := &core.Listing{
		Title:      "Compact Studio",
		Location:   "Hamburg",
		Price:      210000,
		SquareFeet: 430,
		Bedrooms:   1,
		Bathrooms:  1,
	}

	decoded, err := UnmarshalListing(MarshalListing(original))
	require.NoError(t, err)

	assert.Equal(t, original.Title, decoded.Title)
	assert.Empty(t, decoded.Amenities)
	assert.Empty(t, decoded.Vector)
	assert.True(t, decoded.InsertedAt.IsZero())
}

func TestUnmarshalListing_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalListing(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	original := &core.Checkpoint{
		ProcessorType: "reindex",
		ResumeFrom:    now.Add(-3 * time.Hour),
		UpdatedAt:     now,
	}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(original))
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.Equal(t, original.ProcessorType, decoded.ProcessorType)
	assert.True(t, original.ResumeFrom.Equal(decoded.ResumeFrom))
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
}
