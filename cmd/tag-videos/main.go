// Command tag-videos re-tags every video from its extracted metadata: a year
// tag from the Hebrew date plus topic tags matched against the subject. Each
// run replaces a video's previous tags.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/tagger"
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
		neo4jURL    = flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", os.Getenv("NEO4J_PASSWORD"), "Neo4j password")
		rulesPath   = flag.String("rules", "", "YAML topic rule file (empty for built-in rules)")
		metricsPort = flag.Int("metrics-port", 0, "serve /metrics on this port (0 to disable)")
	)
	flag.Parse()

	log := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met.ServeAsync(*metricsPort)

	var rules []tagger.Rule
	if *rulesPath != "" {
		var err error
		rules, err = tagger.LoadRules(*rulesPath)
		if err != nil {
			log.Error("loading rules failed", "path", *rulesPath, "error", err)
			os.Exit(1)
		}
		log.Info("rules loaded", "path", *rulesPath, "rules", len(rules))
	}
	tg := tagger.New(rules)

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	gs := graph.New(driver)

	videos, err := gs.Videos(ctx)
	if err != nil {
		log.Error("listing videos failed", "error", err)
		os.Exit(1)
	}

	taggings := met.Counter("taggings_created_total", "video-tag links written")
	tagged := 0
	for _, v := range videos {
		if ctx.Err() != nil {
			break
		}
		tags := tg.Tags(v.HebrewDate, v.Subject)
		if err := gs.ReplaceTags(ctx, v.VideoID, tags); err != nil {
			log.Warn("tagging failed", "video_id", v.VideoID, "error", err)
			continue
		}
		if len(tags) > 0 {
			tagged++
			taggings.Add(int64(len(tags)))
		}
	}
	log.Info("tagging complete", "videos", len(videos), "tagged", tagged, "taggings", taggings.Value())

	counts, err := gs.TagCounts(ctx)
	if err != nil {
		log.Warn("tag report failed", "error", err)
		return
	}
	for _, tc := range counts {
		fmt.Printf("%6d  %s\n", tc.Count, tc.Tag)
	}
}
