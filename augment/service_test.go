package augment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/homematch/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	t.Run("requires completer", func(t *testing.T) {
		_, err := NewService(nil)
		assert.ErrorIs(t, err, ErrCompleterRequired)
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewService(mock.NewMockCompleter())
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, svc.timeout)
		assert.Equal(t, DefaultMaxRetries, svc.maxRetries)
		assert.Equal(t, DefaultRetryDelay, svc.retryDelay)
	})

	t.Run("options applied", func(t *testing.T) {
		svc, err := NewService(mock.NewMockCompleter(),
			WithTimeout(time.Second),
			WithMaxRetries(5),
			WithRetryDelay(time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, time.Second, svc.timeout)
		assert.Equal(t, 5, svc.maxRetries)
		assert.Equal(t, time.Millisecond, svc.retryDelay)
	})
}

func TestService_Augment(t *testing.T) {
	ctx := context.Background()
	query := "My preferred city is Berlin."

	t.Run("returns model output on success", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "  A beautifully presented three-bedroom home in Berlin.  ", nil
		}
		svc, err := NewService(completer)
		require.NoError(t, err)

		got := svc.Augment(ctx, sampleListing(), query)

		assert.Equal(t, "A beautifully presented three-bedroom home in Berlin.", got)
		assert.Equal(t, 1, completer.CallCount())
	})

	t.Run("prompt wraps the fallback description", func(t *testing.T) {
		var seen string
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			seen = prompt
			return "ok", nil
		}
		svc, err := NewService(completer)
		require.NoError(t, err)

		listing := sampleListing()
		svc.Augment(ctx, listing, query)

		assert.True(t, strings.HasPrefix(seen, refinePromptInstruction+"\n\n"))
		assert.Contains(t, seen, FallbackDescription(listing, query))
	})

	t.Run("model error returns untouched fallback", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		}
		svc, err := NewService(completer, WithRetryDelay(time.Millisecond))
		require.NoError(t, err)

		listing := sampleListing()
		got := svc.Augment(ctx, listing, query)

		assert.Equal(t, FallbackDescription(listing, query), got)
	})

	t.Run("blank model output returns fallback", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "   \n  ", nil
		}
		svc, err := NewService(completer, WithRetryDelay(time.Millisecond))
		require.NoError(t, err)

		listing := sampleListing()
		got := svc.Augment(ctx, listing, query)

		assert.Equal(t, FallbackDescription(listing, query), got)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("connection reset")
			}
			return "Recovered rewrite.", nil
		}
		svc, err := NewService(completer, WithMaxRetries(2), WithRetryDelay(time.Millisecond))
		require.NoError(t, err)

		got := svc.Augment(ctx, sampleListing(), query)

		assert.Equal(t, "Recovered rewrite.", got)
		assert.Equal(t, 2, calls)
	})

	t.Run("each call carries a deadline", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return "ok", nil
		}
		svc, err := NewService(completer, WithTimeout(time.Second))
		require.NoError(t, err)

		svc.Augment(ctx, sampleListing(), query)
	})

	t.Run("listing is not mutated", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("down")
		}
		svc, err := NewService(completer, WithRetryDelay(time.Millisecond))
		require.NoError(t, err)

		listing := sampleListing()
		want := *listing
		svc.Augment(ctx, listing, query)

		assert.Equal(t, want, *listing)
	})
}
