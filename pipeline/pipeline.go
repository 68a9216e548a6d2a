package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/augment"
	"github.com/poiesic/homematch/core"
	"github.com/poiesic/homematch/prefs"
	"github.com/poiesic/homematch/rerank"
	"github.com/poiesic/homematch/search"
	"github.com/poiesic/homematch/storage"
)

// Match is one shortlisted listing with its preference-fit score and the
// description shown to the user.
type Match struct {
	Listing     *core.Listing
	Score       float64
	Description string
}

// Result is the outcome of one match run.
type Result struct {
	Query       string                // Normalized semantic query
	Preferences *core.UserPreferences // Parsed preference record
	Matches     []Match               // Shortlist, best first
}

// Pipeline orchestrates a full match run over the listing catalog.
// It normalizes raw input, retrieves candidates, reranks them against the
// user's preferences, and rewrites the shortlisted descriptions.
type Pipeline struct {
	listings    storage.ListingRepository
	normalizer  *prefs.Normalizer
	searcher    *search.Searcher
	reranker    *rerank.Reranker
	augmenter   *augment.Service
	augmentPool *ants.Pool
	rerankOpts  []rerank.Option
	augmentOpts []augment.Option
	searchK     int
	topN        int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent description rewrites.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.augmentPool != nil {
			p.augmentPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.augmentPool = pool
		return nil
	}
}

// WithSearchK sets how many candidate listings the retrieval stage fetches
// before reranking. Default is search.DefaultK. Values below 1 are raised to 1.
func WithSearchK(k int) Option {
	return func(p *Pipeline) error {
		if k < 1 {
			k = 1
		}
		p.searchK = k
		return nil
	}
}

// WithTopN sets the shortlist size. Default is rerank.DefaultTopN.
// Values below 1 are raised to 1.
func WithTopN(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.topN = n
		return nil
	}
}

// WithRerankOptions forwards options to the rerank stage.
func WithRerankOptions(opts ...rerank.Option) Option {
	return func(p *Pipeline) error {
		p.rerankOpts = append(p.rerankOpts, opts...)
		return nil
	}
}

// WithAugmentOptions forwards options to the description rewrite stage.
func WithAugmentOptions(opts ...augment.Option) Option {
	return func(p *Pipeline) error {
		p.augmentOpts = append(p.augmentOpts, opts...)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new match pipeline.
func NewPipeline(
	listings storage.ListingRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default logger
	logger := slog.Default()

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	augmentPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		listings:    listings,
		augmentPool: augmentPool,
		searchK:     search.DefaultK,
		topN:        rerank.DefaultTopN,
		logger:      logger,
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create stages after options are applied (so they get final config)
	p.normalizer = prefs.NewNormalizer(prefs.WithLogger(p.logger))

	searcher, err := search.NewSearcher(listings, provider.Embedder(), search.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}
	p.searcher = searcher

	rerankOpts := append([]rerank.Option{rerank.WithLogger(p.logger)}, p.rerankOpts...)
	p.reranker = rerank.NewReranker(rerankOpts...)

	augmentOpts := append([]augment.Option{augment.WithLogger(p.logger)}, p.augmentOpts...)
	augmenter, err := augment.NewService(provider.Completer(), augmentOpts...)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.augmenter = augmenter

	return p, nil
}

// Match runs the full pipeline for one search: normalize the raw input,
// retrieve semantically similar listings, rerank them against the structured
// preferences, and rewrite each shortlisted description.
//
// An empty shortlist is a valid result, not an error. Rewrite failures
// degrade to deterministic fallback descriptions and never fail the run.
func (p *Pipeline) Match(ctx context.Context, input prefs.RawInput) (*Result, error) {
	return p.MatchWithMonitor(ctx, input, nil)
}

// MatchWithMonitor runs Match with stage callbacks.
// The monitor receives intermediate results after each pipeline stage.
func (p *Pipeline) MatchWithMonitor(ctx context.Context, input prefs.RawInput, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(input)

	// 1. Normalize raw input into a query string and a preference record
	query, preferences := p.normalizer.Normalize(input)
	monitor.AfterNormalize(query, preferences)

	// 2. Retrieve candidates by embedding similarity
	candidates, err := p.searcher.Search(ctx, query, p.searchK)
	if err != nil {
		p.logger.Error("error retrieving candidates", "err", err)
		return nil, err
	}
	monitor.AfterRetrieval(candidates)

	// 3. Rerank against the structured preferences
	shortlist := p.reranker.Rerank(candidates, preferences, p.topN)
	monitor.AfterRerank(shortlist)

	// 4. Rewrite descriptions concurrently. Results are index-addressed so
	// the shortlist order survives the concurrency.
	matches := make([]Match, len(shortlist))
	var wg sync.WaitGroup
	for i, scored := range shortlist {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			matches[i] = Match{
				Listing:     scored.Listing,
				Score:       scored.Score,
				Description: p.augmenter.Augment(ctx, scored.Listing, query),
			}
		}
		if err := p.augmentPool.Submit(task); err != nil {
			// A released or saturated pool must not lose a match
			task()
		}
	}
	wg.Wait()

	result := &Result{
		Query:       query,
		Preferences: preferences,
		Matches:     matches,
	}
	monitor.Finish(result)

	return result, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.augmentPool != nil {
		p.augmentPool.Release()
	}
}
