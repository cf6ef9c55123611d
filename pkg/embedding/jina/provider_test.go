package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-search-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) *JinaProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p := NewJinaProvider("token")
	p.baseURL = srv.URL
	return p
}

func TestJinaProvider_Generate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		var req embeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"hello"}, req.Input)
		_, _ = w.Write([]byte(`{"data":[{"object":"embedding","index":0,"embedding":[0.5,0.25]}]}`))
	})

	res, err := p.Generate(context.Background(), "hello", embedding.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, res.Embedding.Values)
}

func TestJinaProvider_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := p.Generate(context.Background(), "hello", embedding.GenerateOptions{})

		var se *embedding.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "jina", se.Provider)
		assert.False(t, se.Rejected())
	})

	t.Run("error payload", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[],"error":{"message":"quota"}}`))
		})
		_, err := p.Generate(context.Background(), "hello", embedding.GenerateOptions{})
		assert.ErrorContains(t, err, "quota")
	})

	t.Run("empty data", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		})
		_, err := p.Generate(context.Background(), "hello", embedding.GenerateOptions{})
		assert.Error(t, err)
	})
}
