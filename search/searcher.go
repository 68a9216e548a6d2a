package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/storage"
)

// DefaultK is the number of listings retrieved per query when the caller
// does not ask for a specific count.
const DefaultK = 10

// Searcher provides semantic search over the listing catalog.
type Searcher struct {
	listings      storage.ListingRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithMinSimilarity sets the minimum similarity score a listing must reach
// to be returned. Default is 0, which keeps the k nearest listings no matter
// how weak the match.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		if min < -1 || min > 1 {
			return ErrInvalidMinSimilarity
		}
		s.minSimilarity = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	listings storage.ListingRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		listings: listings,
		embedder: embedder,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to k listings semantically closest to the query text,
// best match first. An empty result means nothing in the catalog resembles
// the query; it is not an error. Errors from the embedding service or the
// catalog wrap ErrRetrievalUnavailable.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]*core.Listing, error) {
	if k <= 0 {
		k = DefaultK
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}

	// Stored vectors are unit length, so a normalized query turns the
	// similarity scan's dot product into cosine similarity.
	embedding = core.NormalizeVector(embedding)

	matches, err := s.listings.FindSimilar(ctx, embedding, s.minSimilarity, k)
	if err != nil {
		s.logger.Error("error querying for similar listings", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}

	results := make([]*core.Listing, 0, len(matches))
	for _, match := range matches {
		results = append(results, match.Listing)
	}

	return results, nil
}
