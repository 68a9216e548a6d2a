package ai

import "errors"

// ErrInvalidMaxAttempts indicates RetryWithBackoff was called with a
// non-positive attempt budget.
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

// ErrEmptyCompletion indicates the model answered but produced no usable text.
var ErrEmptyCompletion = errors.New("model returned no completion")
