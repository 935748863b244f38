// Package genai adapts the generative text API. It returns raw model output
// as untrusted text; interpreting it is the extractor's job.
package genai

import "context"

// Options tune a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int64
}

// Completer abstracts the text-generation client so runs can swap in a mock.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Config provides the settings a concrete client needs.
type Config struct {
	Model   string
	APIKey  string
	BaseURL string
}
