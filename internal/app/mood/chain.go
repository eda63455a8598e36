package mood

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ProviderWithMetadata wraps a provider with its display metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// Chain tries providers in order until one returns keywords.
type Chain struct {
	providers []ProviderWithMetadata
}

// NewChain creates a new provider chain.
func NewChain(providers []ProviderWithMetadata) *Chain {
	return &Chain{providers: providers}
}

// Keywords asks each provider in turn and returns the first non-empty
// answer. Provider failures are logged and fall through to the next.
func (c *Chain) Keywords(ctx context.Context, mood string) ([]string, error) {
	for i, pm := range c.providers {
		zlog.Debug().Msgf("trying mood provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		keywords, err := pm.Provider.Keywords(ctx, mood)
		if err != nil {
			zlog.Warn().Msgf("mood provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}
		if len(keywords) == 0 {
			zlog.Debug().Msgf("mood provider returned no keywords: provider=%s", pm.DisplayName)
			continue
		}

		zlog.Info().Msgf("mood provider returned keywords: provider=%s count=%d", pm.DisplayName, len(keywords))
		return keywords, nil
	}

	return nil, errors.New("all mood providers failed to return keywords")
}

// Name returns the chain name.
func (c *Chain) Name() string {
	return "provider_chain"
}
