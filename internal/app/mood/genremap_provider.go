package mood

import (
	"context"
	"strings"
)

// GenreMapProviderConfig represents the configuration for GenreMapProvider.
type GenreMapProviderConfig struct {
	// Extra maps additional mood words to a genre keyword, merged over
	// the built-in table.
	Extra map[string]string `yaml:"extra" mapstructure:"extra"`
	// Fallback is returned when no mood word matches.
	Fallback []string `yaml:"fallback" mapstructure:"fallback" default:"[\"popular\"]"`
}

// builtinGenres maps common mood words to a movie genre or theme.
var builtinGenres = map[string]string{
	"happy":      "comedy",
	"cheerful":   "comedy",
	"light":      "comedy",
	"sad":        "drama",
	"melancholy": "drama",
	"nostalgic":  "classic",
	"romantic":   "romance",
	"love":       "romance",
	"excited":    "action",
	"adrenaline": "action",
	"tense":      "thriller",
	"scared":     "horror",
	"spooky":     "horror",
	"curious":    "documentary",
	"thoughtful": "mystery",
	"adventure":  "adventure",
	"dreamy":     "fantasy",
	"futuristic": "science fiction",
	"space":      "science fiction",
	"family":     "animation",
	"kids":       "animation",
}

// GenreMapProvider extracts keywords with an offline word-to-genre
// lookup. It needs no network access and never fails, which makes it
// the natural last link in the chain.
type GenreMapProvider struct {
	genres   map[string]string
	fallback []string
}

// NewGenreMapProvider creates an offline mood provider.
func NewGenreMapProvider(settings map[string]any) (*GenreMapProvider, error) {
	config, err := decodeProviderSettings[GenreMapProviderConfig](settings)
	if err != nil {
		return nil, err
	}

	genres := make(map[string]string, len(builtinGenres)+len(config.Extra))
	for word, genre := range builtinGenres {
		genres[word] = genre
	}
	for word, genre := range config.Extra {
		genres[strings.ToLower(word)] = genre
	}

	return &GenreMapProvider{genres: genres, fallback: config.Fallback}, nil
}

func (p *GenreMapProvider) Name() string {
	return "genremap"
}

func (p *GenreMapProvider) Keywords(ctx context.Context, mood string) ([]string, error) {
	var keywords []string
	seen := make(map[string]bool)

	for _, word := range strings.Fields(strings.ToLower(mood)) {
		word = strings.Trim(word, ".,!?;:'\"")
		genre, ok := p.genres[word]
		if !ok || seen[genre] {
			continue
		}
		seen[genre] = true
		keywords = append(keywords, genre)
	}

	if len(keywords) == 0 {
		return p.fallback, nil
	}
	return keywords, nil
}
