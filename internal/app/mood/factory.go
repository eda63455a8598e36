package mood

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/aayush84339/smart-movie-recommendor/internal/infra/config"
)

// NewChainFromConfig creates a provider chain from configuration. With
// no providers configured the chain falls back to a single offline
// genre lookup, so mood search always works.
func NewChainFromConfig(cfg *config.Config, gemini GeminiClient) (*Chain, error) {
	if len(cfg.Mood.Providers) == 0 {
		provider, err := NewGenreMapProvider(nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create default provider")
		}
		return NewChain([]ProviderWithMetadata{{Provider: provider, DisplayName: "Genre lookup"}}), nil
	}

	var providers []ProviderWithMetadata

	for i, pcfg := range cfg.Mood.Providers {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating mood provider: index=%d type=%s settings=%+v", i+1, pcfg.Type, pcfg.Settings)
		switch pcfg.Type {
		case "gemini":
			provider, err = NewGeminiProvider(gemini, pcfg.Settings)

		case "genremap":
			provider, err = NewGenreMapProvider(pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: pcfg.DisplayName,
		})

		zlog.Info().Msgf("registered mood provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, pcfg.DisplayName)
	}

	return NewChain(providers), nil
}
