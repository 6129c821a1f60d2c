// Command embed vectorizes chunk text and subject lines with the OpenAI
// embeddings API and upserts the vectors into Qdrant. Identical text is
// served from the Redis cache instead of the API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"

	"github.com/zmbq/butbul-halacha-ingest/engine/embed"
	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/ingest"
	"github.com/zmbq/butbul-halacha-ingest/engine/semantic"
	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
	"github.com/zmbq/butbul-halacha-ingest/pkg/metrics"
)

var met = metrics.New()

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		kind        = flag.String("kind", "everything", "what to embed: subjects, chunks, or everything")
		neo4jURL    = flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", os.Getenv("NEO4J_PASSWORD"), "Neo4j password")
		qdrantAddr  = flag.String("qdrant", envOr("QDRANT_ADDR", "localhost:6334"), "Qdrant gRPC address")
		prefix      = flag.String("prefix", "halacha", "Qdrant collection prefix")
		redisAddr   = flag.String("redis", envOr("REDIS_ADDR", "localhost:6379"), "Redis address for the embedding cache (empty to disable)")
		apiKey      = flag.String("openai-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key")
		metricsPort = flag.Int("metrics-port", 0, "serve /metrics on this port (0 to disable)")
	)
	flag.Parse()

	log := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met.ServeAsync(*metricsPort)

	if *kind != "subjects" && *kind != "chunks" && *kind != "everything" {
		log.Error("unknown -kind", "kind", *kind)
		os.Exit(2)
	}
	if *apiKey == "" {
		log.Error("OpenAI API key required (OPENAI_API_KEY or -openai-key)")
		os.Exit(2)
	}

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	vs, err := semantic.New(*qdrantAddr, *prefix)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer vs.Close()

	var cache *redis.Client
	if *redisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer cache.Close()
	}

	deps := ingest.Deps{
		Graph:    graph.New(driver),
		Vectors:  vs,
		Embedder: embed.New(*apiKey, cache, log),
		Metrics:  met,
		Logger:   log,
	}

	if *kind == "subjects" || *kind == "everything" {
		if err := vs.EnsureCollection(ctx, semantic.KindSubjects, embed.Dimensions); err != nil {
			log.Error("ensure subjects collection failed", "error", err)
			os.Exit(1)
		}
		videos, err := deps.Graph.Videos(ctx)
		if err != nil {
			log.Error("listing videos failed", "error", err)
			os.Exit(1)
		}
		report, err := ingest.EmbedSubjects(ctx, deps, videos)
		if err != nil {
			log.Error("subject embedding failed", "error", err)
			os.Exit(1)
		}
		log.Info("subjects embedded",
			"embedded", report.Succeeded, "without_subject", report.Skipped)
	}

	if *kind == "chunks" || *kind == "everything" {
		if err := vs.EnsureCollection(ctx, semantic.KindChunks, embed.Dimensions); err != nil {
			log.Error("ensure chunks collection failed", "error", err)
			os.Exit(1)
		}
		chunks, err := deps.Graph.AllChunks(ctx)
		if err != nil {
			log.Error("listing chunks failed", "error", err)
			os.Exit(1)
		}
		ids := fn.UniqueBy(
			fn.Map(chunks, func(c graph.Chunk) string { return c.VideoID }),
			func(id string) string { return id },
		)
		report := ingest.EmbedChunks(ctx, deps, ids)
		log.Info("chunks embedded",
			"videos", report.Total, "succeeded", report.Succeeded,
			"failed", report.Failed, "skipped", report.Skipped)
	}
}
