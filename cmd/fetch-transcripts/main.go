// Command fetch-transcripts downloads timed captions for videos that have no
// transcript yet and stores them as ordered segments. With -listen it stays
// up and fetches transcripts as discovery events arrive over NATS.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/ingest"
	"github.com/zmbq/butbul-halacha-ingest/engine/scraper"
	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
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
		limit       = flag.Int("limit", 0, "max videos to fetch this run (0 = all)")
		workers     = flag.Int("workers", 3, "concurrent transcript fetches")
		listen      = flag.Bool("listen", false, "subscribe to discovery events instead of polling")
		natsURL     = flag.String("nats", envOr("NATS_URL", nats.DefaultURL), "NATS URL (listen mode)")
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

	deps := ingest.Deps{
		Graph:   graph.New(driver),
		Metrics: met,
		Logger:  log,
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}

	if *listen {
		runListener(ctx, deps, httpClient, *natsURL, log)
		return
	}

	ids, err := deps.Graph.VideoIDsWithoutSegments(ctx)
	if err != nil {
		log.Error("listing videos failed", "error", err)
		os.Exit(1)
	}
	if *limit > 0 && len(ids) > *limit {
		ids = ids[:*limit]
	}
	log.Info("fetching transcripts", "videos", len(ids), "workers", *workers)

	fetched := met.Counter("transcripts_fetched_total", "transcripts stored")
	missing := met.Counter("transcripts_missing_total", "videos with no captions")

	results := fn.ParMapResult(ids, *workers, func(videoID string) fn.Result[string] {
		transcript, err := scraper.GetTranscript(ctx, httpClient, videoID).Unwrap()
		if err != nil {
			return fn.Err[string](err)
		}
		if err := ingest.StoreTranscript(ctx, deps, transcript); err != nil {
			return fn.Err[string](err)
		}
		return fn.Ok(videoID)
	})

	for i, r := range results {
		if _, err := r.Unwrap(); err != nil {
			missing.Inc()
			log.Warn("transcript fetch failed", "video_id", ids[i], "error", err)
			continue
		}
		fetched.Inc()
	}
	log.Info("transcript fetch complete",
		"fetched", fetched.Value(), "missing", missing.Value(), "total", len(ids))
}

func runListener(ctx context.Context, deps ingest.Deps, httpClient *http.Client, natsURL string, log *slog.Logger) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Error("nats connect failed", "error", err)
		os.Exit(1)
	}
	defer nc.Drain()

	sub, err := natsutil.QueueSubscribe(nc, natsutil.SubjectVideoDiscovered, "transcript-fetchers",
		func(msgCtx context.Context, event ingest.VideoEvent) {
			transcript, err := scraper.GetTranscript(msgCtx, httpClient, event.VideoID).Unwrap()
			if err != nil {
				log.Warn("transcript fetch failed", "video_id", event.VideoID, "error", err)
				return
			}
			if err := ingest.StoreTranscript(msgCtx, deps, transcript); err != nil {
				log.Warn("transcript store failed", "video_id", event.VideoID, "error", err)
				return
			}
			log.Info("transcript stored", "video_id", event.VideoID, "segments", len(transcript.Segments))
		})
	if err != nil {
		log.Error("subscribe failed", "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	log.Info("listening for discovery events", "subject", natsutil.SubjectVideoDiscovered)
	<-ctx.Done()
}
