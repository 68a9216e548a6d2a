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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/homematch"
	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/index"
	"github.com/poiesic/homematch/pipeline"
	"github.com/poiesic/homematch/prefs"
	"github.com/poiesic/homematch/reindex"
	"github.com/poiesic/homematch/rerank"
	"github.com/poiesic/homematch/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "homematch",
		Usage: "Preference-aware real estate search over a local listing catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate synthetic listings with the completion model and index them",
				Action: generateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "completion-model",
						Usage: "Completion model name used to fabricate listings",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key for hosted endpoints",
						Value:   "none",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "per-city",
						Usage: "Number of listings to generate per city",
						Value: 10,
					},
					&cli.StringSliceFlag{
						Name:  "cities",
						Usage: "Cities to generate listings for",
						Value: cli.NewStringSlice(index.Cities...),
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Load listings from a CSV file into the catalog",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "src",
						Aliases:  []string{"s"},
						Usage:    "Path to a CSV file of listings",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key for hosted endpoints",
						Value:   "none",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Match listings against buyer preferences",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "completion-model",
						Usage: "Completion model name used to personalize descriptions",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key for hosted endpoints",
						Value:   "none",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "city",
						Usage: "Preferred city",
					},
					&cli.StringFlag{
						Name:  "budget",
						Usage: "Approximate budget",
					},
					&cli.StringFlag{
						Name:  "square-feet",
						Usage: "Desired home size in square feet",
					},
					&cli.StringFlag{
						Name:  "features",
						Usage: "Free-text feature wishes",
					},
					&cli.StringSliceFlag{
						Name:  "amenities",
						Usage: "Desired amenities",
					},
					&cli.StringSliceFlag{
						Name:  "neighborhoods",
						Usage: "Preferred neighborhoods",
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Shortlist size",
						Value: rerank.DefaultTopN,
					},
					&cli.IntFlag{
						Name:  "k",
						Usage: "Number of candidates retrieved before reranking",
						Value: search.DefaultK,
					},
					&cli.BoolFlag{
						Name:  "include-unscored",
						Usage: "Keep zero-scored candidates in the shortlist",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List the most recently added listings",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of listings to show",
						Value: 10,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the catalog to CSV",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (defaults to stdout)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every listing with a new embedding model",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key for hosted endpoints",
						Value:   "none",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of listings to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N listings",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiConfigFromFlags builds an AI configuration from the command's flags.
// Flags a command does not define fall back to the config defaults.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("completion-model"); model != "" {
		opts = append(opts, ai.WithCompletionModel(model))
	}
	if key := c.String("api-key"); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}
	return ai.NewConfig(opts...)
}

func openCatalog(c *cli.Context) (*homematch.Catalog, error) {
	// Validate flags
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Create AI config
	aiConfig := aiConfigFromFlags(c)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	catalog, err := homematch.NewCatalog(dbPath, homematch.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, nil
}

func generateCommand(c *cli.Context) error {
	ctx := context.Background()

	perCity := c.Int("per-city")
	if perCity <= 0 {
		return fmt.Errorf("per-city must be greater than 0")
	}

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	indexer, err := catalog.NewIndexer()
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	listings, err := indexer.Generate(ctx, perCity, c.StringSlice("cities"))
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Printf("Generated and indexed %d listings\n", len(listings))
	return nil
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	srcPath := c.String("src")
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer f.Close()

	listings, err := index.ReadListings(f)
	if err != nil {
		return fmt.Errorf("failed to read listings: %w", err)
	}
	if len(listings) == 0 {
		fmt.Println("No listings found in source file")
		return nil
	}

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	indexer, err := catalog.NewIndexer()
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	count, err := indexer.IndexListings(ctx, listings...)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %d listings from %s\n", count, srcPath)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	opts := []pipeline.Option{
		pipeline.WithSearchK(c.Int("k")),
		pipeline.WithTopN(c.Int("top")),
	}
	if c.Bool("include-unscored") {
		opts = append(opts, pipeline.WithRerankOptions(rerank.WithZeroScored(true)))
	}

	matcher, err := catalog.NewPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer matcher.Release()

	result, err := matcher.Match(ctx, prefs.RawInput{
		City:          c.String("city"),
		Budget:        c.String("budget"),
		SquareFeet:    c.String("square-feet"),
		Features:      c.String("features"),
		Amenities:     c.StringSlice("amenities"),
		Neighborhoods: c.StringSlice("neighborhoods"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(result.Matches) == 0 {
		fmt.Println("No listings matched your preferences.")
		return nil
	}

	fmt.Printf("Found %d matching listings\n\n", len(result.Matches))
	for i, match := range result.Matches {
		listing := match.Listing
		fmt.Printf("%d. %s (%s) $%s [score %.2f]\n",
			i+1, listing.Title, listing.Location,
			humanize.Comma(int64(listing.Price)), match.Score)
		fmt.Printf("   %s\n\n", match.Description)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	listings, err := catalog.Listings().GetRecentListings(ctx, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	if len(listings) == 0 {
		fmt.Println("The catalog is empty.")
		return nil
	}

	for _, listing := range listings {
		fmt.Printf("%d: %s (%s) $%s, %d bd/%d ba, added %s\n",
			listing.Id, listing.Title, listing.Location,
			humanize.Comma(int64(listing.Price)),
			listing.Bedrooms, listing.Bathrooms,
			listing.InsertedAt.Format(time.RFC3339))
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	listings, err := catalog.Listings().GetListingsByDateRange(ctx, time.Unix(0, 0), time.Now().Add(time.Hour))
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	if err := index.WriteListings(out, listings); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d listings\n", len(listings))
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	// Create reindexing config
	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := catalog.NewReindexer(reindexConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
