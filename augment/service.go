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


package augment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/homematch/ai"
	"github.com/poiesic/homematch/core"
)

// Guard rails for the model call.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 500 * time.Millisecond
)

// Service rewrites listing descriptions with a language model while
// guaranteeing a usable deterministic description when the model cannot.
type Service struct {
	completer  ai.Completer
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each individual model call.
// Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithMaxRetries sets how many model calls are attempted before falling back.
// Non-positive values keep the default.
func WithMaxRetries(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxRetries = attempts
		}
	}
}

// WithRetryDelay sets the base delay between retried model calls.
// Non-positive values keep the default.
func WithRetryDelay(delay time.Duration) Option {
	return func(s *Service) {
		if delay > 0 {
			s.retryDelay = delay
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates an augmentation service backed by the given completer.
func NewService(completer ai.Completer, opts ...Option) (*Service, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	s := &Service{
		completer:  completer,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default().With("component", "augment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Augment returns a polished description for the listing. The deterministic
// fallback is always assembled first and the model rewrite replaces it only
// on success. Model failures are logged and absorbed, never returned, and the
// listing itself is never modified.
func (s *Service) Augment(ctx context.Context, listing *core.Listing, query string) string {
	fallback := FallbackDescription(listing, query)
	prompt := buildPrompt(fallback)

	var refined string
	err := ai.RetryWithBackoff(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		output, err := s.completer.Complete(callCtx, prompt)
		if err != nil {
			return err
		}
		output = strings.TrimSpace(output)
		if output == "" {
			return ai.ErrEmptyCompletion
		}
		refined = output
		return nil
	}, s.maxRetries, s.retryDelay)
	if err != nil {
		s.logger.Warn("model rewrite failed, using fallback description",
			"listing", listing.Id,
			"err", err)
		return fallback
	}

	return refined
}
