// Command extract-metadata walks every video in the graph, pulls the Hebrew
// date and subject out of its title or description, derives the weekday and
// civil date, and writes the result back onto the video node.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/hebdate"
	"github.com/zmbq/butbul-halacha-ingest/engine/metadata"
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
	gs := graph.New(driver)

	videos, err := gs.Videos(ctx)
	if err != nil {
		log.Error("listing videos failed", "error", err)
		os.Exit(1)
	}

	parsed := met.Counter(metrics.WithLabels("dates_parsed_total", "status", "ok"), "date parse outcomes")
	unparsed := met.Counter(metrics.WithLabels("dates_parsed_total", "status", "failed"), "")
	withSubject := 0

	for _, v := range videos {
		if ctx.Err() != nil {
			break
		}
		rec := metadata.Derive(v.VideoID, v.Title, v.Description)
		civil := civilDate(rec.HebrewDate)

		if rec.HebrewDate != "" && civil != nil {
			parsed.Inc()
		} else {
			unparsed.Inc()
			log.Debug("date not parsed", "video_id", v.VideoID, "title", v.Title)
		}
		if rec.Subject != "" {
			withSubject++
		}

		if err := gs.SetMetadata(ctx, v.VideoID, rec.HebrewDate, rec.DayOfWeek, rec.Subject, civil); err != nil {
			log.Warn("metadata write failed", "video_id", v.VideoID, "error", err)
		}
	}

	log.Info("metadata extraction complete",
		"videos", len(videos),
		"dates_parsed", parsed.Value(),
		"dates_unparsed", unparsed.Value(),
		"with_subject", withSubject)
}

// civilDate converts a Hebrew date string to its Gregorian day, or nil when
// the string is missing, partial, or not a real calendar date.
func civilDate(hebrewDate string) *time.Time {
	if hebrewDate == "" {
		return nil
	}
	d := hebdate.ParseDateString(hebrewDate)
	g, err := hebdate.ToGregorian(d)
	if err != nil {
		return nil
	}
	return &g
}
