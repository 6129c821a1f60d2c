package ingest

import (
	"github.com/zmbq/butbul-halacha-ingest/engine/chunker"
	"github.com/zmbq/butbul-halacha-ingest/engine/graph"
	"github.com/zmbq/butbul-halacha-ingest/engine/scraper"
)

// captionsToSegments numbers a fetched transcript's caption lines into
// stored segments. End is derived once here so every consumer agrees on it.
func captionsToSegments(videoID string, captions []scraper.CaptionSegment) []graph.Segment {
	segments := make([]graph.Segment, len(captions))
	for i, c := range captions {
		segments[i] = graph.Segment{
			VideoID:  videoID,
			Index:    i,
			Start:    c.Start,
			Duration: c.Duration,
			End:      c.Start + c.Duration,
			Text:     c.Text,
		}
	}
	return segments
}

// toChunkerSegments adapts stored segments for the chunking algorithm. The
// segment index doubles as the chunker's segment ID.
func toChunkerSegments(segments []graph.Segment) []chunker.Segment {
	out := make([]chunker.Segment, len(segments))
	for i, s := range segments {
		out[i] = chunker.Segment{
			ID:       int64(s.Index),
			Index:    s.Index,
			Start:    s.Start,
			Duration: s.Duration,
			End:      s.End,
			Text:     s.Text,
		}
	}
	return out
}

// boundariesToChunks materializes chunk boundaries into storable chunks with
// their aggregated text.
func boundariesToChunks(videoID string, segments []chunker.Segment, boundaries []chunker.Boundary) []graph.Chunk {
	chunks := make([]graph.Chunk, len(boundaries))
	for i, b := range boundaries {
		chunks[i] = graph.Chunk{
			VideoID:    videoID,
			FirstIndex: int(b.FirstSegmentID),
			LastIndex:  int(b.LastSegmentID),
			Start:      b.Start,
			End:        b.End,
			Text:       chunker.AggregateText(segments, b),
		}
	}
	return chunks
}
