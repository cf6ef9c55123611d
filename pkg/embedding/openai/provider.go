package openai

import (
	"context"
	"fmt"

	"ai-search-be/pkg/embedding"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider embeds text through any OpenAI-compatible embeddings endpoint.
type Provider struct {
	embedder embeddings.Embedder
}

func NewProvider(baseURL, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		// local OpenAI-compatible servers accept any token
		apiKey = "none"
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &Provider{embedder: embedder}, nil
}

func (p *Provider) Generate(ctx context.Context, text string, opts embedding.GenerateOptions) (*embedding.EmbeddingResponse, error) {
	var (
		vec []float32
		err error
	)
	if opts.TaskType == embedding.TaskRetrievalQuery {
		vec, err = p.embedder.EmbedQuery(ctx, text)
	} else {
		var docs [][]float32
		docs, err = p.embedder.EmbedDocuments(ctx, []string{text})
		if err == nil {
			if len(docs) == 0 {
				return nil, fmt.Errorf("openai embedder returned no vectors")
			}
			vec = docs[0]
		}
	}
	if err != nil {
		return nil, err
	}
	return embedding.NewEmbeddingResponse(vec), nil
}
