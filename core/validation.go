// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
)

// ValidateListing validates a Listing according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Location must not be empty
//   - Price and SquareFeet must not be negative
//   - Bedrooms and Bathrooms must not be negative
//
// NOT validated (populated later in the pipeline):
//   - Vector (can be empty until the indexer embeds the listing)
//   - ID (0 is valid; storage derives it from the content key)
//   - InsertedAt/UpdatedAt (maintained by storage)
func ValidateListing(listing *Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: listing is nil", ErrInvalidListing)
	}

	if listing.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyTitle)
	}

	if listing.Location == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyLocation)
	}

	if listing.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativePrice)
	}

	if listing.SquareFeet < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativeSquareFeet)
	}

	if listing.Bedrooms < 0 || listing.Bathrooms < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativeRoomCount)
	}

	return nil
}
