package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	MaxInputChars    = 8000
	DefaultBatchSize = 10
)

// Client wraps an EmbeddingProvider with input normalization, sub-batching,
// rate limiting and a circuit breaker.
type Client struct {
	provider  EmbeddingProvider
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	batchSize int
	cacheTTL  time.Duration
}

type ClientOption func(*Client)

// WithRateLimit caps provider requests per second. Zero or negative disables it.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = DefaultBatchSize
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithBatchSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// WithCacheTTL sets the cache hint sent with every request.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

func WithBreakerSettings(st gobreaker.Settings) ClientOption {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker(st)
	}
}

func NewClient(provider EmbeddingProvider, opts ...ClientOption) *Client {
	c := &Client{
		provider:  provider,
		batchSize: DefaultBatchSize,
		cacheTTL:  DefaultCacheTTL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "embedding",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return !countsAsFailure(err)
			},
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether a provider is configured and the breaker is not open.
func (c *Client) Available() bool {
	return c != nil && c.provider != nil && c.breaker.State() != gobreaker.StateOpen
}

// Preprocess trims, collapses whitespace runs and truncates to MaxInputChars.
func Preprocess(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > MaxInputChars {
		text = string(runes[:MaxInputChars])
	}
	return text
}

// Embed generates a query embedding for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.generate(ctx, text, TaskRetrievalQuery)
}

// EmbedBatch embeds document texts in sub-batches processed one after another;
// items within a sub-batch are requested concurrently. Output order matches input.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				vec, err := c.generate(gctx, texts[i], TaskRetrievalDocument)
				if err != nil {
					return fmt.Errorf("embed item %d: %w", i, err)
				}
				results[i] = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// BatchSize is the sub-batch size used by EmbedBatch.
func (c *Client) BatchSize() int {
	return c.batchSize
}

func (c *Client) generate(ctx context.Context, text, taskType string) ([]float32, error) {
	if c == nil || c.provider == nil {
		return nil, ErrProviderUnavailable
	}
	text = Preprocess(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.provider.Generate(ctx, text, GenerateOptions{
			TaskType: taskType,
			CacheTTL: c.cacheTTL,
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil, err
	}

	res, ok := out.(*EmbeddingResponse)
	if !ok || res == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("embedding: provider returned an empty vector")
	}
	return res.Embedding.Values, nil
}
