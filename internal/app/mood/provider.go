// Package mood turns free-form mood descriptions into movie search
// keywords through a chain of providers.
package mood

import "context"

// Provider is the interface for mood keyword providers. Different
// implementations extract keywords through various strategies
// (generative model, offline genre lookup).
type Provider interface {
	// Keywords extracts search keywords from a mood description.
	Keywords(ctx context.Context, mood string) ([]string, error)

	// Name returns the provider name (used in config).
	Name() string
}

// GeminiClient defines the Gemini operations needed by mood providers.
type GeminiClient interface {
	ExtractKeywords(ctx context.Context, mood string) ([]string, error)
}
