// Command build-chunks aggregates stored transcript segments into bounded,
// overlapping chunks and writes them to the graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zmbq/butbul-halacha-ingest/engine/chunker"
	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/ingest"
	"github.com/zmbq/butbul-halacha-ingest/pkg/metrics"
	"github.com/zmbq/butbul-halacha-ingest/pkg/natsutil"
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
		neo4jURL    = flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", os.Getenv("NEO4J_PASSWORD"), "Neo4j password")
		videoID     = flag.String("video", "", "build chunks for one video only")
		limit       = flag.Int("limit", 0, "max videos to process (0 = all)")
		dryRun      = flag.Bool("dry-run", false, "report boundaries without writing")
		clear       = flag.Bool("clear", false, "delete existing chunks first")
		natsURL     = flag.String("nats", os.Getenv("NATS_URL"), "NATS URL for chunked events (empty to skip)")
		metricsPort = flag.Int("metrics-port", 0, "serve /metrics on this port (0 to disable)")
	)
	flag.Parse()

	log := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met.ServeAsync(*metricsPort)

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	deps := ingest.Deps{Graph: graph.New(driver), Metrics: met, Logger: log}

	if *clear {
		if err := deps.Graph.ClearChunks(ctx, *videoID); err != nil {
			log.Error("clearing chunks failed", "error", err)
			os.Exit(1)
		}
		log.Info("existing chunks cleared", "video_id", *videoID)
	}

	var ids []string
	if *videoID != "" {
		ids = []string{*videoID}
	} else {
		ids, err = deps.Graph.VideoIDsWithoutChunks(ctx)
		if err != nil {
			log.Error("listing videos failed", "error", err)
			os.Exit(1)
		}
	}
	if *limit > 0 && len(ids) > *limit {
		ids = ids[:*limit]
	}

	if *dryRun {
		dryRunReport(ctx, deps, ids, log)
		return
	}

	report := ingest.ChunkBatch(ctx, deps, ids)
	log.Info("chunk build complete",
		"total", report.Total, "succeeded", report.Succeeded,
		"failed", report.Failed, "skipped", report.Skipped)

	if *natsURL != "" && report.Succeeded > 0 {
		publishChunked(ctx, *natsURL, ids, deps, log)
	}
}

// dryRunReport prints the boundaries each video would get, without writing.
func dryRunReport(ctx context.Context, deps ingest.Deps, ids []string, log *slog.Logger) {
	for _, id := range ids {
		segments, err := deps.Graph.Segments(ctx, id)
		if err != nil {
			log.Warn("loading segments failed", "video_id", id, "error", err)
			continue
		}
		cs := make([]chunker.Segment, len(segments))
		for i, s := range segments {
			cs[i] = chunker.Segment{
				ID: int64(s.Index), Index: s.Index,
				Start: s.Start, Duration: s.Duration, End: s.End, Text: s.Text,
			}
		}
		boundaries := chunker.Build(cs)
		fmt.Printf("%s: %d segments -> %d chunks\n", id, len(segments), len(boundaries))
		for _, b := range boundaries {
			fmt.Printf("  [%d..%d] %.1fs-%.1fs (%.1fs)\n",
				b.FirstSegmentID, b.LastSegmentID, b.Start, b.End, b.End-b.Start)
		}
	}
}

func publishChunked(ctx context.Context, natsURL string, ids []string, deps ingest.Deps, log *slog.Logger) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Warn("nats connect failed", "error", err)
		return
	}
	defer nc.Drain()

	for _, id := range ids {
		chunks, err := deps.Graph.Chunks(ctx, id)
		if err != nil || len(chunks) == 0 {
			continue
		}
		event := ingest.VideoEvent{VideoID: id, Chunks: len(chunks)}
		if err := natsutil.Publish(ctx, nc, natsutil.SubjectVideoChunked, event); err != nil {
			log.Warn("publish failed", "video_id", id, "error", err)
		}
	}
}
