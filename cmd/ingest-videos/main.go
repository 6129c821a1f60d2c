// Command ingest-videos discovers lecture videos from the channel's daily
// halacha playlists (or its RSS uploads feed) and upserts them into the
// graph, keeping a JSON backup of the listing on disk.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/creachadair/atomicfile"
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
		apiKey      = flag.String("api-key", os.Getenv("YOUTUBE_API_KEY"), "YouTube Data API key")
		channelID   = flag.String("channel", envOr("YOUTUBE_CHANNEL_ID", scraper.DefaultChannelID), "YouTube channel ID")
		filter      = flag.String("filter", scraper.DefaultPlaylistFilter, "playlist title filter")
		useRSS      = flag.Bool("rss", false, "poll the uploads RSS feed instead of the API")
		backupPath  = flag.String("backup", "videos.json", "JSON backup of the discovered listing (empty to skip)")
		neo4jURL    = flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", os.Getenv("NEO4J_PASSWORD"), "Neo4j password")
		natsURL     = flag.String("nats", os.Getenv("NATS_URL"), "NATS URL for discovery events (empty to skip)")
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
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Error("neo4j verify failed", "error", err)
		os.Exit(1)
	}
	gs := graph.New(driver)

	videos, err := discover(ctx, *apiKey, *channelID, *filter, *useRSS, log)
	if err != nil {
		log.Error("discovery failed", "error", err)
		os.Exit(1)
	}
	log.Info("videos discovered", "count", len(videos))
	met.Counter("videos_discovered_total", "videos returned by discovery").Add(int64(len(videos)))

	if *backupPath != "" {
		if err := writeBackup(*backupPath, videos); err != nil {
			log.Error("backup write failed", "path", *backupPath, "error", err)
			os.Exit(1)
		}
		log.Info("backup written", "path", *backupPath)
	}

	known := knownIDs(ctx, gs, log)

	nodes := fn.Map(videos, func(v scraper.Video) graph.Video {
		return graph.Video{
			VideoID:         v.VideoID,
			URL:             v.URL,
			Title:           v.Title,
			Description:     v.Description,
			PublishedAt:     v.PublishedAt,
			DurationSeconds: v.DurationSeconds,
		}
	})
	if err := gs.SaveVideos(ctx, nodes); err != nil {
		log.Error("graph save failed", "error", err)
		os.Exit(1)
	}
	met.Counter("videos_ingested_total", "videos written to the graph").Add(int64(len(nodes)))

	if *natsURL != "" {
		publishNew(ctx, *natsURL, videos, known, log)
	}

	count, err := gs.CountVideos(ctx)
	if err != nil {
		log.Warn("count failed", "error", err)
	}
	log.Info("ingest complete", "saved", len(nodes), "total_in_graph", count)
}

func discover(ctx context.Context, apiKey, channelID, filter string, useRSS bool, log *slog.Logger) ([]scraper.Video, error) {
	if useRSS {
		return scraper.NewFeedPoller(channelID).RecentUploads(ctx).Unwrap()
	}

	client := scraper.NewYouTubeClient(apiKey, channelID)
	videos, err := client.ChannelVideos(ctx, filter).Unwrap()
	if err != nil {
		return nil, err
	}

	ids := fn.Map(videos, func(v scraper.Video) string { return v.VideoID })
	durations, err := client.Durations(ctx, ids).Unwrap()
	if err != nil {
		// Durations are cosmetic; keep the listing without them.
		log.Warn("duration fetch failed", "error", err)
		return videos, nil
	}
	for i := range videos {
		videos[i].DurationSeconds = durations[videos[i].VideoID]
	}
	return videos, nil
}

func writeBackup(path string, videos []scraper.Video) error {
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return err
	}
	return atomicfile.WriteData(path, data, 0o644)
}

// knownIDs returns the set of video IDs already in the graph, so only truly
// new videos produce discovery events.
func knownIDs(ctx context.Context, gs *graph.Store, log *slog.Logger) map[string]bool {
	existing, err := gs.Videos(ctx)
	if err != nil {
		log.Warn("listing existing videos failed", "error", err)
		return nil
	}
	known := make(map[string]bool, len(existing))
	for _, v := range existing {
		known[v.VideoID] = true
	}
	return known
}

func publishNew(ctx context.Context, natsURL string, videos []scraper.Video, known map[string]bool, log *slog.Logger) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Warn("nats connect failed", "error", err)
		return
	}
	defer nc.Drain()

	published := 0
	for _, v := range videos {
		if known[v.VideoID] {
			continue
		}
		event := ingest.VideoEvent{VideoID: v.VideoID, Title: v.Title}
		if err := natsutil.Publish(ctx, nc, natsutil.SubjectVideoDiscovered, event); err != nil {
			log.Warn("publish failed", "video_id", v.VideoID, "error", err)
			continue
		}
		published++
	}
	log.Info("discovery events published", "count", published)
}
