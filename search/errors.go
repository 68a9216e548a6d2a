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


package search

import "errors"

var (
	// ErrListingRepositoryRequired is returned when a listing repository is not provided.
	ErrListingRepositoryRequired = errors.New("listing repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidMinSimilarity is returned when the minimum similarity is outside [-1, 1].
	ErrInvalidMinSimilarity = errors.New("minimum similarity must be between -1 and 1")

	// ErrRetrievalUnavailable is returned when the embedding service or the
	// vector store cannot be reached. Callers can distinguish an unavailable
	// retrieval stage from an empty result, which is not an error.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)
