package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/storage"
)

// BatchProcessor re-embeds batches of listings.
type BatchProcessor struct {
	repo           storage.ListingRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ListingRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the batch's document texts and updates the stored listings.
// Vectors are normalized so the similarity scan's dot product stays a cosine
// similarity.
func (bp *BatchProcessor) Process(ctx context.Context, listings []*core.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	texts := make([]string, len(listings))
	for i, listing := range listings {
		texts[i] = listing.DocumentText()
	}

	var embeddings [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(listings) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(listings), len(embeddings))
	}

	for i := range listings {
		listings[i].Vector = core.NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpdateListings(ctx, listings...); err != nil {
		return fmt.Errorf("failed to update listings: %w", err)
	}

	return nil
}
