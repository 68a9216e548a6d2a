// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// ai.ListingGenerator, and ai.AIProvider for use in unit tests. The mocks
// allow tests to run without external AI service dependencies and enable
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockCompleter := mock.NewMockCompleter()
//	mockCompleter.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return "", errors.New("model unavailable")
//	}
//
//	// Check call counts
//	count := mockCompleter.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockCompleter: Echoes the refinement payload back as the completion
//   - MockListingGenerator: Produces varied synthetic listings for a city
//   - MockProvider: Aggregates the three mocks above
package mock
