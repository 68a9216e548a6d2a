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


package homematch

import (
	"io"
	"log/slog"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/ai/openai"
	"github.com/poiesic/homematch/index"
	"github.com/poiesic/homematch/pipeline"
	"github.com/poiesic/homematch/reindex"
	"github.com/poiesic/homematch/search"
	"github.com/poiesic/homematch/storage"
	"github.com/poiesic/homematch/storage/badger"
)

// Catalog aggregates the storage backend, the listing repository, and the AI
// provider behind a single handle with factories for the higher-level
// components.
type Catalog struct {
	backend     *badger.Backend
	listings    storage.ListingRepository
	checkpoints storage.CheckpointRepository
	provider    ai.AIProvider
	logger      *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the AI service configuration for the catalog's provider.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

func NewCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	// Apply options
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create listing repository
	listings, err := badger.NewListingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create checkpoint repository
	checkpoints := badger.NewCheckpointRepository(backend)

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		listings.Close()
		backend.Close()
		return nil, err
	}

	return &Catalog{
		backend:     backend,
		listings:    listings,
		checkpoints: checkpoints,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

func (c *Catalog) Close() error {
	// Close AI provider first
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	// Close repository
	if err := c.listings.Close(); err != nil {
		c.logger.Error("error closing listing repository", "err", err)
		return err
	}

	// Close backend
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Catalog) Listings() storage.ListingRepository {
	return c.listings
}

func (c *Catalog) Checkpoints() storage.CheckpointRepository {
	return c.checkpoints
}

func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(c.listings, c.provider.Embedder(), opts...)
}

func (c *Catalog) NewIndexer(opts ...index.Option) (*index.Indexer, error) {
	return index.NewIndexer(c.listings, c.provider, opts...)
}

func (c *Catalog) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(c.listings, c.provider, opts...)
}

// NewReindexer creates a reindexer that re-embeds the catalog with the
// provider's current embedding model, writing progress to the given writer.
func (c *Catalog) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(c.listings, c.checkpoints, c.provider.Embedder(), config, progress)
}
