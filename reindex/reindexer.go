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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/storage"
)

// checkpointType identifies reindex checkpoints in the checkpoint store.
const checkpointType = "reindex"

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of listings to re-embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of listings)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every listing in the catalog, typically after an
// embedding model change. A checkpoint is saved after each batch so an
// interrupted run resumes where it stopped.
type Reindexer struct {
	listings    storage.ListingRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *ListingIterator
}

// NewReindexer creates a new reindexer.
// checkpoints may be nil, which disables resume support.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(listings storage.ListingRepository, checkpoints storage.CheckpointRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(listings, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewListingIterator(listings, config.BatchSize)

	return &Reindexer{
		listings:    listings,
		checkpoints: checkpoints,
		embedder:    embedder,
		config:      config,
		progress:    progress,
		processor:   processor,
		iterator:    iterator,
	}
}

// Run executes the reindexing operation. Listings are re-embedded in
// insertion order; progress is reported to the configured writer. When a
// checkpoint from an interrupted run exists, processing restarts at the
// checkpointed insertion time. Listings inserted at exactly that time are
// processed again rather than risk skipping one; re-embedding is idempotent.
func (r *Reindexer) Run(ctx context.Context) error {
	var since time.Time
	if r.checkpoints != nil {
		cp, err := r.checkpoints.LoadCheckpoint(ctx, checkpointType)
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if cp != nil {
			since = cp.ResumeFrom
			fmt.Fprintf(r.progress, "Resuming from checkpoint at %s\n", since.Format(time.RFC3339))
		}
	}

	start := catalogStart
	if !since.IsZero() {
		start = since
	}

	remaining, err := r.listings.GetListingsByDateRange(ctx, start, catalogEnd)
	if err != nil {
		return fmt.Errorf("failed to query listings: %w", err)
	}

	total := len(remaining)
	if total == 0 {
		fmt.Fprintf(r.progress, "No listings to reindex (0 listings)\n")
		return r.clearCheckpoint(ctx)
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d listings (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, since, func(batch []*core.Listing) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)

		// Batches arrive in insertion order, so the last listing marks
		// how far this run has progressed
		return r.saveCheckpoint(ctx, batch[len(batch)-1].InsertedAt)
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	if err := r.clearCheckpoint(ctx); err != nil {
		return err
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d listings in %v (%.1f listings/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

func (r *Reindexer) saveCheckpoint(ctx context.Context, resumeFrom time.Time) error {
	if r.checkpoints == nil {
		return nil
	}

	checkpoint := &core.Checkpoint{
		ProcessorType: checkpointType,
		ResumeFrom:    resumeFrom,
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *Reindexer) clearCheckpoint(ctx context.Context) error {
	if r.checkpoints == nil {
		return nil
	}

	if err := r.checkpoints.ClearCheckpoint(ctx, checkpointType); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}
