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


package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/storage"
)

// Defaults for embedding batches and transient-failure handling.
const (
	DefaultBatchSize  = 20
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
)

// Indexer embeds listings and stores them in the catalog. It can also
// synthesize new listings through a generation model before indexing them.
type Indexer struct {
	listings   storage.ListingRepository
	embedder   ai.Embedder
	generator  ai.ListingGenerator
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithBatchSize sets how many listings are embedded per model call.
// Sizes below 1 are raised to 1.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		ix.batchSize = size
		return nil
	}
}

// WithMaxRetries sets how many attempts each model call gets.
// Values below 1 are raised to 1.
func WithMaxRetries(attempts int) Option {
	return func(ix *Indexer) error {
		if attempts < 1 {
			attempts = 1
		}
		ix.maxRetries = attempts
		return nil
	}
}

// WithRetryDelay sets the base delay between retried model calls.
func WithRetryDelay(delay time.Duration) Option {
	return func(ix *Indexer) error {
		if delay > 0 {
			ix.retryDelay = delay
		}
		return nil
	}
}

// WithLogger sets a custom logger for the indexer.
// If nil is provided, the default logger will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer over the given catalog and AI provider.
func NewIndexer(listings storage.ListingRepository, provider ai.AIProvider, opts ...Option) (*Indexer, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	ix := &Indexer{
		listings:   listings,
		embedder:   provider.Embedder(),
		generator:  provider.ListingGenerator(),
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

// IndexListings validates, embeds, and stores the given listings.
// Embedding runs in batches; each batch is retried on transient failures.
// Returns how many listings were stored. Listings whose content matches an
// already stored record resolve to the existing record instead of a duplicate.
func (ix *Indexer) IndexListings(ctx context.Context, listings ...*core.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	// Reject the whole load before embedding anything
	for _, listing := range listings {
		if err := core.ValidateListing(listing); err != nil {
			return 0, err
		}
	}

	ix.logger.Info("indexing listings", "listings", len(listings))

	count := 0
	for start := 0; start < len(listings); start += ix.batchSize {
		end := min(start+ix.batchSize, len(listings))
		batch := listings[start:end]

		texts := make([]string, len(batch))
		for i, listing := range batch {
			texts[i] = listing.DocumentText()
		}

		ix.logger.Debug("generating embeddings for listings", "listings", len(texts))

		var embeddings [][]float32
		err := ai.RetryWithBackoff(ctx, func() error {
			var embedErr error
			embeddings, embedErr = ix.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, ix.maxRetries, ix.retryDelay)
		if err != nil {
			ix.logger.Error("error generating embeddings", "err", err)
			return count, err
		}

		if len(embeddings) != len(batch) {
			return count, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
		}

		for i := range embeddings {
			batch[i].Vector = core.NormalizeVector(embeddings[i])
		}

		stored, err := ix.listings.AddListings(ctx, batch...)
		if err != nil {
			ix.logger.Error("error storing listings", "err", err)
			return count, err
		}
		count += len(stored)
	}

	ix.logger.Info("indexed listings", "listings", count)
	return count, nil
}

// Generate synthesizes perCity listings for each of the given cities and
// indexes them. An empty city list falls back to Cities. The model may
// deliver fewer listings than requested; invalid fabrications are skipped
// with a warning rather than failing the run. Returns the indexed listings.
func (ix *Indexer) Generate(ctx context.Context, perCity int, cities []string) ([]*core.Listing, error) {
	if perCity < 1 {
		perCity = 1
	}
	if len(cities) == 0 {
		cities = Cities
	}

	listings := make([]*core.Listing, 0, perCity*len(cities))
	for _, city := range cities {
		ix.logger.Info("generating listings", "city", city, "count", perCity)

		var generated []ai.GeneratedListing
		err := ai.RetryWithBackoff(ctx, func() error {
			var genErr error
			generated, genErr = ix.generator.GenerateListings(ctx, city, perCity)
			return genErr
		}, ix.maxRetries, ix.retryDelay)
		if err != nil {
			ix.logger.Error("error generating listings", "city", city, "err", err)
			return nil, fmt.Errorf("generating listings for %s: %w", city, err)
		}
		if len(generated) < perCity {
			ix.logger.Warn("model under-delivered listings", "city", city, "requested", perCity, "received", len(generated))
		}

		for _, g := range generated {
			listing := listingFromGenerated(g)
			if err := core.ValidateListing(listing); err != nil {
				ix.logger.Warn("skipping invalid generated listing", "city", city, "err", err)
				continue
			}
			listings = append(listings, listing)
		}
	}

	if _, err := ix.IndexListings(ctx, listings...); err != nil {
		return nil, err
	}

	return listings, nil
}

// listingFromGenerated maps a model-produced listing onto the domain type.
func listingFromGenerated(g ai.GeneratedListing) *core.Listing {
	return &core.Listing{
		Title:                   g.Title,
		Location:                g.Location,
		Neighborhood:            g.Neighborhood,
		Price:                   g.Price,
		SquareFeet:              g.SquareFeet,
		Bedrooms:                g.Bedrooms,
		Bathrooms:               g.Bathrooms,
		Amenities:               g.Amenities,
		Description:             g.Description,
		NeighborhoodDescription: g.NeighborhoodDescription,
	}
}
