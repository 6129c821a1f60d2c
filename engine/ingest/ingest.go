// Package ingest wires the pipeline stages: transcripts into segments,
// segments into chunks, chunks and subjects into vectors.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zmbq/butbul-halacha-ingest/engine/chunker"
	"github.com/zmbq/butbul-halacha-ingest/engine/embed"
	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/scraper"
	"github.com/zmbq/butbul-halacha-ingest/engine/semantic"
	"github.com/zmbq/butbul-halacha-ingest/pkg/fn"
	"github.com/zmbq/butbul-halacha-ingest/pkg/metrics"
)

// Deps holds the external dependencies of the pipeline stages.
type Deps struct {
	Graph    *graph.Store
	Vectors  *semantic.VectorStore
	Embedder *embed.Client
	Metrics  *metrics.Registry
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// StoreTranscript numbers and persists a fetched transcript as the video's
// segments, replacing any previous transcript.
func StoreTranscript(ctx context.Context, deps Deps, transcript scraper.Transcript) error {
	segments := captionsToSegments(transcript.VideoID, transcript.Segments)
	if len(segments) == 0 {
		return fmt.Errorf("ingest: empty transcript for video %s", transcript.VideoID)
	}
	return deps.Graph.ReplaceSegments(ctx, transcript.VideoID, segments)
}

// NewChunkPipeline returns a traced stage that loads one video's segments,
// builds chunk boundaries, aggregates their text, and stores the chunks.
// It yields the number of chunks written.
func NewChunkPipeline(deps Deps) fn.Stage[string, int] {
	load := func(ctx context.Context, videoID string) fn.Result[[]graph.Segment] {
		segments, err := deps.Graph.Segments(ctx, videoID)
		if err != nil {
			return fn.Err[[]graph.Segment](fmt.Errorf("load segments for %s: %w", videoID, err))
		}
		if len(segments) == 0 {
			return fn.Errf[[]graph.Segment]("video %s has no segments", videoID)
		}
		return fn.Ok(segments)
	}

	build := func(ctx context.Context, segments []graph.Segment) fn.Result[int] {
		videoID := segments[0].VideoID
		cs := toChunkerSegments(segments)
		chunks := boundariesToChunks(videoID, cs, chunker.Build(cs))
		if err := deps.Graph.SaveChunks(ctx, videoID, chunks); err != nil {
			return fn.Err[int](fmt.Errorf("save chunks for %s: %w", videoID, err))
		}
		return fn.Ok(len(chunks))
	}

	return fn.TracedStage("ingest.chunk", fn.Then(load, build))
}

// ChunkBatch runs the chunk pipeline over many videos. A failing video is
// logged and counted; the batch always continues.
func ChunkBatch(ctx context.Context, deps Deps, videoIDs []string) BatchReport {
	logger := deps.logger()
	pipeline := NewChunkPipeline(deps)
	report := BatchReport{Total: len(videoIDs)}

	var built, failed *metrics.Counter
	if deps.Metrics != nil {
		built = deps.Metrics.Counter("chunks_built_total", "chunks written to the graph")
		failed = deps.Metrics.Counter("chunk_videos_failed_total", "videos whose chunk build failed")
	}

	for _, videoID := range videoIDs {
		if ctx.Err() != nil {
			report.Skipped = report.Total - report.Succeeded - report.Failed
			return report
		}
		n, err := pipeline(ctx, videoID).Unwrap()
		if err != nil {
			report.Failed++
			if failed != nil {
				failed.Inc()
			}
			logger.Warn("chunk build failed", "video_id", videoID, "error", err)
			continue
		}
		report.Succeeded++
		if built != nil {
			built.Add(int64(n))
		}
		logger.Info("chunks built", "video_id", videoID, "chunks", n)
	}
	return report
}

// EmbedChunks embeds every chunk of the given videos and upserts the vectors
// into the chunks collection. Point IDs are derived from the chunk's segment
// range, so re-embedding overwrites rather than duplicates.
func EmbedChunks(ctx context.Context, deps Deps, videoIDs []string) BatchReport {
	logger := deps.logger()
	report := BatchReport{Total: len(videoIDs)}

	for _, videoID := range videoIDs {
		if ctx.Err() != nil {
			report.Skipped = report.Total - report.Succeeded - report.Failed
			return report
		}
		if err := embedVideoChunks(ctx, deps, videoID); err != nil {
			report.Failed++
			logger.Warn("chunk embedding failed", "video_id", videoID, "error", err)
			continue
		}
		report.Succeeded++
	}
	return report
}

func embedVideoChunks(ctx context.Context, deps Deps, videoID string) error {
	chunks, err := deps.Graph.Chunks(ctx, videoID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("video %s has no chunks", videoID)
	}

	video, err := deps.Graph.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}

	texts := fn.Map(chunks, func(c graph.Chunk) string { return c.Text })
	vectors, err := deps.Embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}

	records := make([]semantic.VectorRecord, len(chunks))
	for i, c := range chunks {
		key := fmt.Sprintf("chunk:%s:%d:%d", c.VideoID, c.FirstIndex, c.LastIndex)
		records[i] = semantic.VectorRecord{
			ID:        semantic.PointID(key),
			Embedding: vectors[i],
			Payload: map[string]any{
				"video_id":    c.VideoID,
				"text":        c.Text,
				"first_idx":   c.FirstIndex,
				"last_idx":    c.LastIndex,
				"hebrew_date": video.HebrewDate,
				"subject":     video.Subject,
			},
		}
	}
	return deps.Vectors.Upsert(ctx, semantic.KindChunks, records)
}

// EmbedSubjects embeds the extracted subject line of every video that has
// one, into the subjects collection.
func EmbedSubjects(ctx context.Context, deps Deps, videos []graph.Video) (BatchReport, error) {
	withSubject := fn.Filter(videos, func(v graph.Video) bool { return v.Subject != "" })
	report := BatchReport{
		Total:   len(videos),
		Skipped: len(videos) - len(withSubject),
	}
	if len(withSubject) == 0 {
		return report, nil
	}

	texts := fn.Map(withSubject, func(v graph.Video) string { return v.Subject })
	vectors, err := deps.Embedder.Embed(ctx, texts)
	if err != nil {
		report.Failed = len(withSubject)
		return report, err
	}

	records := make([]semantic.VectorRecord, len(withSubject))
	for i, v := range withSubject {
		records[i] = semantic.VectorRecord{
			ID:        semantic.PointID("subject:" + v.VideoID),
			Embedding: vectors[i],
			Payload: map[string]any{
				"video_id":    v.VideoID,
				"text":        v.Subject,
				"hebrew_date": v.HebrewDate,
				"subject":     v.Subject,
			},
		}
	}
	if err := deps.Vectors.Upsert(ctx, semantic.KindSubjects, records); err != nil {
		report.Failed = len(withSubject)
		return report, err
	}
	report.Succeeded = len(withSubject)
	return report, nil
}
