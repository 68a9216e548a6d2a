package storage

import (
	"context"
	"time"

	"github.com/poiesic/homematch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds listings similar to the given vector.
	// Returns listings with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ListingRepository provides operations for managing listing records.
type ListingRepository interface {
	Repository
	// AddListings adds one or more listings to storage.
	// For listings with ID=0, derives a content-based ID from the listing's
	// content key, which makes repeated ingestion of the same listing
	// idempotent: an already stored listing is returned unchanged.
	// Sets InsertedAt if not already set and UpdatedAt always.
	// Returns the stored listings with IDs and timestamps populated.
	AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// UpdateListings updates existing listings.
	// Updates the UpdatedAt timestamp automatically and maintains indices.
	// Returns ErrNotFound if any listing doesn't exist.
	UpdateListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// DeleteListings removes listings by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any listing doesn't exist.
	DeleteListings(ctx context.Context, ids ...core.ID) error

	// GetListing retrieves a single listing by ID.
	// Returns ErrNotFound if the listing doesn't exist.
	GetListing(ctx context.Context, id core.ID) (*core.Listing, error)

	// GetListings retrieves multiple listings by their IDs.
	// Returns only the listings that exist (no error for missing listings).
	GetListings(ctx context.Context, ids ...core.ID) ([]*core.Listing, error)

	// GetListingsByCity retrieves listings whose location matches city,
	// case-insensitively, ordered by ID.
	GetListingsByCity(ctx context.Context, city string) ([]*core.Listing, error)

	// GetListingsByDateRange retrieves listings within a time range.
	// Returns listings where start <= InsertedAt < end, ordered by insertion time.
	GetListingsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Listing, error)

	// GetRecentListings retrieves the N most recently inserted listings.
	// Returns up to limit listings, with the most recent first.
	GetRecentListings(ctx context.Context, limit int) ([]*core.Listing, error)
}

// CheckpointRepository persists progress markers for long-running jobs,
// such as a catalog re-embedding pass.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a processor type, replacing
	// any previous checkpoint for that processor.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// ClearCheckpoint removes the checkpoint for a processor type.
	// Clearing a checkpoint that does not exist is not an error.
	ClearCheckpoint(ctx context.Context, processorType string) error
}
