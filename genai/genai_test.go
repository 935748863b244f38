package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpedia/content"
	"pawpedia/extract"
	"pawpedia/genai"
	"pawpedia/retry"
)

func TestNewOpenAIValidation(t *testing.T) {
	_, err := genai.NewOpenAI(genai.Config{Model: "gpt-4o-mini"})
	assert.Error(t, err, "api key is required")

	_, err = genai.NewOpenAI(genai.Config{APIKey: "sk-test"})
	assert.Error(t, err, "model is required")
}

func TestOpenAICompleteAgainstCompatibleEndpoint(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"answer\": 42}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	c, err := genai.NewOpenAI(genai.Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "Generate something.", genai.Options{Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, `{"answer": 42}`, out)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, 0.7, gotBody["temperature"])
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c, err := genai.NewOpenAI(genai.Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "Generate something.", genai.Options{})
	assert.ErrorIs(t, err, retry.ErrEmptyResult)
}

func TestOpenAICompleteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := genai.NewOpenAI(genai.Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "Generate something.", genai.Options{})
	require.Error(t, err)
	var terr *retry.TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestMockOutputSatisfiesEverySchema(t *testing.T) {
	out, err := genai.Mock{}.Complete(context.Background(), content.BlogPostPrompt("Dog Parks"), genai.Options{})
	require.NoError(t, err)

	for _, schema := range []content.Schema{
		content.BlogPost, content.FactList, content.FactDetails, content.BreedInfo,
	} {
		obj, err := extract.Record(out, schema)
		require.NoError(t, err, "schema %s", schema.Kind)
		assert.NotEmpty(t, obj)
	}
}
