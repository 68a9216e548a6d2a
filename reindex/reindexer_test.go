package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/homematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReindexer_Run(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	listings := addTestListings(t, repo, 10)

	var buf bytes.Buffer
	embedder := &mockEmbedder{}
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reindexer := NewReindexer(repo, checkpoints, embedder, config, &buf)
	err := reindexer.Run(ctx)
	require.NoError(t, err)

	// Verify all listings have normalized embeddings
	for _, original := range listings {
		stored, err := repo.GetListing(ctx, original.Id)
		require.NoError(t, err)
		require.NotEmpty(t, stored.Vector, "listing %d should have embedding", stored.Id)

		var magnitude float32
		for _, v := range stored.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01, "vector should be normalized")
	}

	output := buf.String()
	assert.Contains(t, output, "10/10", "should show completion")

	// A completed run leaves no checkpoint behind
	cp, err := checkpoints.LoadCheckpoint(ctx, "reindex")
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestReindexer_EmptyCatalog(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	var buf bytes.Buffer
	reindexer := NewReindexer(repo, checkpoints, &mockEmbedder{}, DefaultConfig(), &buf)
	err := reindexer.Run(context.Background())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "0 listings", "should report zero listings")
}

func TestReindexer_NilCheckpoints(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	addTestListings(t, repo, 4)

	var buf bytes.Buffer
	config := &Config{BatchSize: 2, ReportInterval: 2, MaxRetries: 2, RetryDelay: time.Millisecond}

	reindexer := NewReindexer(repo, nil, &mockEmbedder{}, config, &buf)
	err := reindexer.Run(ctx)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "4/4")
}

func TestReindexer_ResumesFromCheckpoint(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	listings := addTestListings(t, repo, 10)

	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}

	// First run: the third embedding call fails, so two batches (6 listings)
	// complete and the checkpoint points at the sixth listing
	calls := 0
	failing := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			calls++
			if calls == 3 {
				return nil, errors.New("model went away")
			}
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}

	var firstRun bytes.Buffer
	err := NewReindexer(repo, checkpoints, failing, config, &firstRun).Run(ctx)
	require.Error(t, err)

	cp, err := checkpoints.LoadCheckpoint(ctx, "reindex")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.True(t, cp.ResumeFrom.Equal(listings[5].InsertedAt))

	// Second run resumes at the checkpoint: the boundary listing plus the
	// four unprocessed ones
	var embeddedCount int
	working := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			embeddedCount += len(texts)
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{0.0, 1.0, 0.0}
			}
			return result, nil
		},
	}

	var secondRun bytes.Buffer
	err = NewReindexer(repo, checkpoints, working, config, &secondRun).Run(ctx)
	require.NoError(t, err)

	output := secondRun.String()
	assert.Contains(t, output, "Resuming from checkpoint")
	assert.Contains(t, output, "Starting reindex of 5 listings")
	assert.Equal(t, 5, embeddedCount)

	// All ten listings end up embedded across the two runs
	for _, original := range listings {
		stored, err := repo.GetListing(ctx, original.Id)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.Vector)
	}

	cp, err = checkpoints.LoadCheckpoint(ctx, "reindex")
	require.NoError(t, err)
	assert.Nil(t, cp, "completed run should clear the checkpoint")
}

func TestReindexer_StaleCheckpointPastCatalog(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	listings := addTestListings(t, repo, 2)

	// Simulate a checkpoint beyond every stored listing
	saveErr := checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType: "reindex",
		ResumeFrom:    listings[1].InsertedAt.Add(time.Hour),
	})
	require.NoError(t, saveErr)

	var buf bytes.Buffer
	reindexer := NewReindexer(repo, checkpoints, &mockEmbedder{}, DefaultConfig(), &buf)
	err := reindexer.Run(ctx)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "0 listings")

	cp, err := checkpoints.LoadCheckpoint(ctx, "reindex")
	require.NoError(t, err)
	assert.Nil(t, cp, "stale checkpoint should be cleared")
}

func TestReindexer_ContextCancellation(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	addTestListings(t, repo, 10)

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel after processing a few
	callCount := 0
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			callCount++
			if callCount == 2 {
				cancel()
			}
			result := make([][]float32, len(texts))
			for i := range result {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reindexer := NewReindexer(repo, checkpoints, embedder, config, &buf)
	err := reindexer.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReindexer_EmbeddingError(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	addTestListings(t, repo, 1)

	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("persistent error")
		},
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      1,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
	}

	reindexer := NewReindexer(repo, checkpoints, embedder, config, &buf)
	err := reindexer.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0, "batch size should be positive")
	assert.Greater(t, config.ReportInterval, 0, "report interval should be positive")
	assert.Greater(t, config.MaxRetries, 0, "max retries should be positive")
	assert.Greater(t, config.RetryDelay, time.Duration(0), "retry delay should be positive")
}

func TestReindexer_ProgressTracking(t *testing.T) {
	repo, checkpoints, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	addTestListings(t, repo, 25)

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      5,
		ReportInterval: 10, // Report every 10 listings
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reindexer := NewReindexer(repo, checkpoints, &mockEmbedder{}, config, &buf)
	err := reindexer.Run(ctx)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Progress:", "should show progress")
	assert.Contains(t, output, "25/25", "should show final count")
}
