// Package gemini provides a client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// keywordPrompt asks the model for plain comma-separated output so the
// response can be split without any structured-output plumbing.
const keywordPrompt = "You are a movie search assistant. Given the mood " +
	"description below, reply with 3 to 5 short movie search keywords, " +
	"comma separated, nothing else.\n\nMood: %s"

// Client is a Gemini API client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Config represents Gemini client configuration.
type Config struct {
	APIKey string
	Model  string
}

// request/response mirror the generateContent wire format, reduced to
// the text-only parts this application uses.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a new Gemini client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}, nil
}

// ExtractKeywords asks the model to turn a free-form mood sentence into
// movie search keywords.
func (c *Client) ExtractKeywords(ctx context.Context, mood string) ([]string, error) {
	if strings.TrimSpace(mood) == "" {
		return nil, errors.New("mood text is required")
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(keywordPrompt, mood)}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	var response generateResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}
	if response.Error != nil {
		return nil, errors.Newf("gemini api error %d: %s", response.Error.Code, response.Error.Message)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	keywords := splitKeywords(response.Candidates[0].Content.Parts[0].Text)
	if len(keywords) == 0 {
		return nil, errors.New("gemini returned no usable keywords")
	}
	return keywords, nil
}

// splitKeywords turns the model's comma-separated reply into clean
// keywords, tolerating stray newlines and empty segments.
func splitKeywords(text string) []string {
	var keywords []string
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		kw := strings.TrimSpace(field)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
