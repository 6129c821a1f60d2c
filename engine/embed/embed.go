// Package embed turns chunk and subject text into vectors via the OpenAI
// embeddings API, with a Redis cache in front so re-runs cost nothing.
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"

	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
	"github.com/zmbq/butbul-halacha-ingest/pkg/resilience"
)

// Dimensions of text-embedding-3-small vectors.
const Dimensions = 1536

// DefaultBatchSize is how many texts go into one API request.
const DefaultBatchSize = 100

// Client embeds text batches. Vectors are cached in Redis keyed by a hash of
// the model and text, so identical text is only ever embedded once.
type Client struct {
	api     openai.Client
	cache   *redis.Client
	breaker *resilience.Breaker
	model   openai.EmbeddingModel
	logger  *slog.Logger
}

// New creates an embedding client. cache may be nil to disable caching.
func New(apiKey string, cache *redis.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:     openai.NewClient(option.WithAPIKey(apiKey)),
		cache:   cache,
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		model:   openai.EmbeddingModelTextEmbedding3Small,
		logger:  logger,
	}
}

// cacheKey hashes the model and text so a model upgrade invalidates every
// cached vector.
func (c *Client) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(string(c.model) + "|" + text))
	return "emb:" + hex.EncodeToString(sum[:])
}

// Embed returns one vector per input text, in input order. Cached texts are
// served from Redis; the rest go to the API in a single batch.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))

	if c.cache != nil {
		keys := make([]string, len(texts))
		for i, t := range texts {
			keys[i] = c.cacheKey(t)
		}
		cached, err := c.cache.MGet(ctx, keys...).Result()
		if err != nil {
			c.logger.Warn("embedding cache read failed", "error", err)
			cached = make([]any, len(texts))
		}
		for i, raw := range cached {
			s, ok := raw.(string)
			if !ok {
				missIdx = append(missIdx, i)
				continue
			}
			var vec []float32
			if err := json.Unmarshal([]byte(s), &vec); err != nil || len(vec) != Dimensions {
				missIdx = append(missIdx, i)
				continue
			}
			vectors[i] = vec
		}
	} else {
		for i := range texts {
			missIdx = append(missIdx, i)
		}
	}

	if len(missIdx) == 0 {
		return vectors, nil
	}

	missing := make([]string, len(missIdx))
	for i, idx := range missIdx {
		missing[i] = texts[idx]
	}

	fresh, err := c.fetch(ctx, missing)
	if err != nil {
		return nil, err
	}

	for i, idx := range missIdx {
		vectors[idx] = fresh[i]
		if c.cache != nil {
			data, _ := json.Marshal(fresh[i])
			if err := c.cache.Set(ctx, c.cacheKey(texts[idx]), data, 0).Err(); err != nil {
				c.logger.Warn("embedding cache write failed", "error", err)
			}
		}
	}
	return vectors, nil
}

// fetch calls the embeddings API through the breaker with retries.
func (c *Client) fetch(ctx context.Context, texts []string) ([][]float32, error) {
	var all [][]float32

	for _, batch := range fn.Chunk(texts, DefaultBatchSize) {
		result := resilience.CallResult(c.breaker, ctx, func(ctx context.Context) fn.Result[[][]float32] {
			return fn.Retry(ctx, fn.RetryOpts{
				MaxAttempts: 3,
				InitialWait: time.Second,
				MaxWait:     20 * time.Second,
				Jitter:      true,
			}, func(ctx context.Context) fn.Result[[][]float32] {
				return c.request(ctx, batch)
			})
		})
		vectors, err := result.Unwrap()
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (c *Client) request(ctx context.Context, texts []string) fn.Result[[][]float32] {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: c.model,
	})
	if err != nil {
		return fn.Err[[][]float32](fmt.Errorf("embed: %w", err))
	}
	if len(resp.Data) != len(texts) {
		return fn.Errf[[][]float32]("embed: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return fn.Ok(vectors)
}
