package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash:generateContent")
		assert.Equal(t, "test_key", r.URL.Query().Get("key"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		response := `{
			"candidates": [
				{"content": {"parts": [{"text": "feel-good comedy, road trip, friendship,\nsummer"}]}}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)
	client.baseURL = server.URL

	keywords, err := client.ExtractKeywords(context.Background(), "I want something light after a long week")
	require.NoError(t, err)

	assert.Equal(t, []string{"feel-good comedy", "road trip", "friendship", "summer"}, keywords)
}

func TestExtractKeywords_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": {"code": 429, "message": "quota exceeded"}}`)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)
	client.baseURL = server.URL

	_, err = client.ExtractKeywords(context.Background(), "anything")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestExtractKeywords_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)
	client.baseURL = server.URL

	_, err = client.ExtractKeywords(context.Background(), "anything")
	assert.Error(t, err)
}

func TestExtractKeywords_EmptyMood(t *testing.T) {
	client, err := New(Config{APIKey: "test_key"})
	require.NoError(t, err)

	_, err = client.ExtractKeywords(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "comma separated",
			text:     "noir, thriller, heist",
			expected: []string{"noir", "thriller", "heist"},
		},
		{
			name:     "newlines and blanks",
			text:     "noir,\n, thriller ,\n",
			expected: []string{"noir", "thriller"},
		},
		{
			name:     "whitespace only",
			text:     "  \n ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitKeywords(tt.text))
		})
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_DefaultModel(t *testing.T) {
	client, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(client.model, "gemini-"))
}
