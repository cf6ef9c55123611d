package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-search-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a local Ollama with an embedding model pulled, e.g.
// `ollama pull nomic-embed-text`.
func TestOllamaEmbeddings(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if model == "" {
		model = "nomic-embed-text"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := embedding.NewClient(embedding.NewOllamaProvider(baseURL, model))
	require.True(t, client.Available())

	query, err := client.Embed(ctx, "how do I retry failed requests")
	require.NoError(t, err)
	require.NotEmpty(t, query)

	docs, err := client.EmbedBatch(ctx, []string{
		"Retry failed HTTP requests with exponential backoff and jitter.",
		"A recipe for sourdough bread with a long cold proof.",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	related, err := embedding.CosineSimilarity(query, docs[0])
	require.NoError(t, err)
	unrelated, err := embedding.CosineSimilarity(query, docs[1])
	require.NoError(t, err)

	t.Logf("related=%.4f unrelated=%.4f", related, unrelated)
	assert.Greater(t, related, unrelated)
}
