package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer produces a single text completion for a prompt. It is the only
// language-model capability the augmentation path depends on.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the prompt to the language model and returns its raw
	// text output. Returns an error when the model cannot be reached or
	// produces no usable output.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ListingGenerator synthesizes plausible real-estate listings.
// Implementations must be thread-safe for concurrent use.
type ListingGenerator interface {
	// GenerateListings produces count listings set in the given city.
	// The returned slice may be shorter than count when the model
	// under-delivers; it is never padded with placeholders.
	// Returns an error if generation fails entirely.
	GenerateListings(ctx context.Context, city string, count int) ([]GeneratedListing, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, Completer, and ListingGenerator
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the text completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// ListingGenerator returns the listing synthesis service.
	// The returned ListingGenerator is safe for concurrent use.
	ListingGenerator() ListingGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
