package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/homematch/ai"
)

// MockListingGenerator is a test double for ai.ListingGenerator.
// It allows custom behavior injection via function fields.
type MockListingGenerator struct {
	// GenerateListingsFunc is called by GenerateListings if set.
	// If nil, uses default deterministic behavior.
	GenerateListingsFunc func(ctx context.Context, city string, count int) ([]ai.GeneratedListing, error)

	callCount int
}

var mockAmenities = [][]string{
	{"Balcony", "Elevator"},
	{"Garage", "Garden"},
	{"Gym", "Swimming Pool", "Balcony"},
	{"Fireplace", "Garden"},
}

// NewMockListingGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockListingGenerator() *MockListingGenerator {
	return &MockListingGenerator{}
}

// GenerateListings produces count deterministic listings set in city.
// Default behavior: synthetic records with varied prices, sizes, and room
// counts so ranking logic downstream has something to discriminate on.
func (m *MockListingGenerator) GenerateListings(ctx context.Context, city string, count int) ([]ai.GeneratedListing, error) {
	m.callCount++

	if m.GenerateListingsFunc != nil {
		return m.GenerateListingsFunc(ctx, city, count)
	}

	if count <= 0 {
		return []ai.GeneratedListing{}, nil
	}

	listings := make([]ai.GeneratedListing, 0, count)
	for i := 0; i < count; i++ {
		bedrooms := 1 + i%4
		listings = append(listings, ai.GeneratedListing{
			Title:                   fmt.Sprintf("%s Home %d", city, i+1),
			Location:                city,
			Neighborhood:            fmt.Sprintf("District %d", i%3+1),
			Price:                   250000 + float64(i)*50000,
			SquareFeet:              900 + float64(i)*150,
			Bedrooms:                bedrooms,
			Bathrooms:               1 + i%2,
			Amenities:               mockAmenities[i%len(mockAmenities)],
			Description:             fmt.Sprintf("A comfortable %d-bedroom home in %s with plenty of natural light.", bedrooms, city),
			NeighborhoodDescription: fmt.Sprintf("District %d is a quiet part of %s with good transit connections.", i%3+1, city),
		})
	}
	return listings, nil
}

// CallCount returns the number of times GenerateListings was called.
func (m *MockListingGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockListingGenerator) Reset() {
	m.callCount = 0
	m.GenerateListingsFunc = nil
}
