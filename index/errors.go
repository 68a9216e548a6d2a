package index

import "errors"

var (
	// ErrListingRepositoryRequired is returned when a listing repository is not provided.
	ErrListingRepositoryRequired = errors.New("listing repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidHeader is returned when a CSV file does not start with the catalog columns.
	ErrInvalidHeader = errors.New("unexpected csv header")
)
