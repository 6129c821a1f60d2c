package embed

import (
	"strings"
	"testing"

	"github.com/openai/openai-go"
)

func TestCacheKey(t *testing.T) {
	c := &Client{model: openai.EmbeddingModelTextEmbedding3Small}
	k1 := c.cacheKey("הלכות שבת")
	k2 := c.cacheKey("הלכות שבת")
	if k1 != k2 {
		t.Fatal("cacheKey not deterministic")
	}
	if !strings.HasPrefix(k1, "emb:") || len(k1) != len("emb:")+64 {
		t.Fatalf("cacheKey shape wrong: %q", k1)
	}
	if c.cacheKey("הלכות תפילה") == k1 {
		t.Fatal("different texts must not collide")
	}

	other := &Client{model: openai.EmbeddingModelTextEmbedding3Large}
	if other.cacheKey("הלכות שבת") == k1 {
		t.Fatal("model change must invalidate the key")
	}
}
