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


package reindex

import (
	"context"
	"time"

	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/storage"
)

const (
	// DefaultBatchSize is the default number of listings to fetch in each batch
	DefaultBatchSize = 100
)

// The catalog's date index is scanned over this range when no resume point
// narrows it.
var (
	catalogStart = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	catalogEnd   = time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)
)

// ListingIterator iterates over catalog listings in insertion order, in batches.
type ListingIterator struct {
	repo      storage.ListingRepository
	batchSize int
}

// NewListingIterator creates a new listing iterator.
// batchSize: number of listings per batch (must be > 0)
func NewListingIterator(repo storage.ListingRepository, batchSize int) *ListingIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ListingIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over listings inserted at or after since, calling fn for
// each batch. A zero since covers the whole catalog. Iteration stops on the
// first error from fn. Context cancellation is checked between batches.
func (it *ListingIterator) ForEach(ctx context.Context, since time.Time, fn func([]*core.Listing) error) error {
	start := catalogStart
	if !since.IsZero() {
		start = since
	}

	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	listings, err := it.repo.GetListingsByDateRange(ctx, start, catalogEnd)
	if err != nil {
		return err
	}

	if len(listings) == 0 {
		return nil
	}

	for i := 0; i < len(listings); i += it.batchSize {
		end := min(i+it.batchSize, len(listings))

		if err := fn(listings[i:end]); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
