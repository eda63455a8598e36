package mood

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// GeminiProviderConfig represents the configuration for GeminiProvider.
type GeminiProviderConfig struct {
	MaxKeywords int `yaml:"max_keywords" mapstructure:"max_keywords" default:"5" validate:"gte=1,lte=10"`
}

// GeminiProvider extracts keywords with the Gemini generateContent API.
type GeminiProvider struct {
	client GeminiClient
	config GeminiProviderConfig
}

// NewGeminiProvider creates a Gemini-backed mood provider.
func NewGeminiProvider(client GeminiClient, settings map[string]any) (*GeminiProvider, error) {
	if client == nil {
		return nil, errors.New("gemini client is required")
	}

	config, err := decodeProviderSettings[GeminiProviderConfig](settings)
	if err != nil {
		return nil, err
	}

	return &GeminiProvider{client: client, config: *config}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Keywords(ctx context.Context, mood string) ([]string, error) {
	keywords, err := p.client.ExtractKeywords(ctx, mood)
	if err != nil {
		return nil, errors.Wrap(err, "gemini keyword extraction failed")
	}
	if len(keywords) > p.config.MaxKeywords {
		keywords = keywords[:p.config.MaxKeywords]
	}
	return keywords, nil
}

// decodeProviderSettings decodes a settings map into a provider config
// struct, applying defaults and validating the result.
func decodeProviderSettings[T any](settings map[string]any) (*T, error) {
	var config T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return &config, nil
}
