package embedding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	inflight int32
	peak     int32
	seen     []GenerateOptions
	texts    []string
	fail     func(text string) bool
	delay    time.Duration
}

func (f *fakeProvider) Generate(ctx context.Context, text string, opts GenerateOptions) (*EmbeddingResponse, error) {
	cur := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if cur <= p || atomic.CompareAndSwapInt32(&f.peak, p, cur) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls++
	f.seen = append(f.seen, opts)
	f.texts = append(f.texts, text)
	f.mu.Unlock()

	if f.fail != nil && f.fail(text) {
		return nil, errors.New("provider down")
	}
	return NewEmbeddingResponse([]float32{float32(len(text)), 1}), nil
}

func TestPreprocess(t *testing.T) {
	assert.Equal(t, "a b c", Preprocess("  a \n\t b   c  "))
	long := strings.Repeat("x", MaxInputChars+100)
	assert.Len(t, []rune(Preprocess(long)), MaxInputChars)
	assert.Equal(t, "", Preprocess(" \n "))
}

func TestClient_EmbedSendsQueryTaskAndCacheHint(t *testing.T) {
	p := &fakeProvider{}
	c := NewClient(p, WithCacheTTL(time.Hour))

	vec, err := c.Embed(context.Background(), "  hello   world ")

	require.NoError(t, err)
	assert.Equal(t, []float32{11, 1}, vec)
	require.Len(t, p.seen, 1)
	assert.Equal(t, TaskRetrievalQuery, p.seen[0].TaskType)
	assert.Equal(t, time.Hour, p.seen[0].CacheTTL)
	assert.Equal(t, "hello world", p.texts[0])
}

func TestClient_EmbedBatchPreservesOrderAndBoundsConcurrency(t *testing.T) {
	p := &fakeProvider{delay: 5 * time.Millisecond}
	c := NewClient(p)

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = strings.Repeat("a", i+1)
	}

	vecs, err := c.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vecs, 25)
	for i, v := range vecs {
		assert.Equal(t, float32(i+1), v[0])
	}
	assert.Equal(t, 25, p.calls)
	assert.LessOrEqual(t, int(p.peak), DefaultBatchSize)
}

func TestClient_EmbedBatchFailsOnProviderError(t *testing.T) {
	p := &fakeProvider{fail: func(text string) bool { return text == "bad" }}
	c := NewClient(p)

	_, err := c.EmbedBatch(context.Background(), []string{"ok", "bad", "fine"})
	assert.Error(t, err)
}

func TestClient_UnavailableWithoutProvider(t *testing.T) {
	c := NewClient(nil)

	assert.False(t, c.Available())
	_, err := c.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestClient_EmptyInputRejected(t *testing.T) {
	c := NewClient(&fakeProvider{})
	_, err := c.Embed(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	p := &fakeProvider{fail: func(string) bool { return true }}
	c := NewClient(p)

	for i := 0; i < 5; i++ {
		_, err := c.Embed(context.Background(), "x")
		require.Error(t, err)
	}

	assert.False(t, c.Available())
	_, err := c.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 5, p.calls)
}

func TestCachedProvider_HonoursHint(t *testing.T) {
	p := &fakeProvider{}
	cached := NewCachedProvider(p, 10, time.Minute)
	ctx := context.Background()

	_, err := cached.Generate(ctx, "same", GenerateOptions{TaskType: TaskRetrievalQuery, CacheTTL: time.Minute})
	require.NoError(t, err)
	_, err = cached.Generate(ctx, "same", GenerateOptions{TaskType: TaskRetrievalQuery, CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)

	_, err = cached.Generate(ctx, "same", GenerateOptions{TaskType: TaskRetrievalQuery})
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)

	_, err = cached.Generate(ctx, "same", GenerateOptions{TaskType: TaskRetrievalDocument, CacheTTL: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
}

type statusProvider struct {
	code  int
	calls int
}

func (s *statusProvider) Generate(ctx context.Context, text string, opts GenerateOptions) (*EmbeddingResponse, error) {
	s.calls++
	return nil, NewStatusError("test", s.code, []byte("nope"))
}

func TestClient_BreakerIgnoresRejectedRequests(t *testing.T) {
	p := &statusProvider{code: 400}
	c := NewClient(p)

	for i := 0; i < 8; i++ {
		_, err := c.Embed(context.Background(), "x")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 400, se.StatusCode)
	}
	assert.True(t, c.Available())
	assert.Equal(t, 8, p.calls)
}

func TestClient_BreakerTripsOnRateLimits(t *testing.T) {
	p := &statusProvider{code: 429}
	c := NewClient(p)

	for i := 0; i < 5; i++ {
		_, _ = c.Embed(context.Background(), "x")
	}
	assert.False(t, c.Available())
}

func TestStatusError_Rejected(t *testing.T) {
	cases := map[int]bool{400: true, 401: true, 404: true, 408: false, 429: false, 500: false, 503: false}
	for code, want := range cases {
		assert.Equal(t, want, NewStatusError("x", code, nil).Rejected(), "status %d", code)
	}
	long := NewStatusError("x", 500, []byte(strings.Repeat("b", 2000)))
	assert.Len(t, long.Body, maxErrorBody)
}
