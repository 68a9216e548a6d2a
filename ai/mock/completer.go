package mock

import (
	"context"
	"strings"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default deterministic behavior.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	callCount int
}

// NewMockCompleter creates a mock completer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a deterministic completion for the prompt.
// Default behavior: echoes the text after the first blank line, which for
// refinement prompts is the payload being rewritten. Prompts without a blank
// line are echoed whole.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	if idx := strings.Index(prompt, "\n\n"); idx >= 0 {
		return strings.TrimSpace(prompt[idx+2:]), nil
	}
	return strings.TrimSpace(prompt), nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
