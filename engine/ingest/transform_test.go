package ingest

import (
	"testing"

	"github.com/zmbq/butbul-halacha-ingest/engine/chunker"
	"github.com/zmbq/butbul-halacha-ingest/engine/scraper"
)

func TestCaptionsToSegments(t *testing.T) {
	captions := []scraper.CaptionSegment{
		{Start: 0, Duration: 8, Text: "שלום"},
		{Start: 8, Duration: 5, Text: "וברכה"},
	}
	segments := captionsToSegments("abc", captions)

	if len(segments) != 2 {
		t.Fatalf("got %d segments", len(segments))
	}
	if segments[0].Index != 0 || segments[1].Index != 1 {
		t.Errorf("indices = %d, %d", segments[0].Index, segments[1].Index)
	}
	if segments[1].End != 13 {
		t.Errorf("end = %v, want 13", segments[1].End)
	}
	if segments[0].VideoID != "abc" {
		t.Errorf("video_id = %q", segments[0].VideoID)
	}
}

func TestBoundariesToChunks_AggregatesText(t *testing.T) {
	captions := []scraper.CaptionSegment{
		{Start: 0, Duration: 8, Text: "אחת"},
		{Start: 8, Duration: 5, Text: "שתיים"},
		{Start: 13, Duration: 9, Text: "שלוש"},
		{Start: 22, Duration: 7, Text: "ארבע"},
		{Start: 29, Duration: 6, Text: "חמש"},
		{Start: 35, Duration: 4, Text: "שש"},
	}
	segments := toChunkerSegments(captionsToSegments("vid", captions))
	boundaries := chunker.Build(segments)
	chunks := boundariesToChunks("vid", segments, boundaries)

	if len(chunks) != len(boundaries) {
		t.Fatalf("chunks = %d, boundaries = %d", len(chunks), len(boundaries))
	}
	if chunks[0].Text != "אחת שתיים שלוש" {
		t.Errorf("first chunk text = %q", chunks[0].Text)
	}
	if chunks[0].FirstIndex != 0 || chunks[0].LastIndex != 2 {
		t.Errorf("first chunk range = [%d,%d]", chunks[0].FirstIndex, chunks[0].LastIndex)
	}
	// Adjacent chunks share exactly one segment.
	if chunks[1].FirstIndex != chunks[0].LastIndex {
		t.Errorf("no overlap between chunks: %+v then %+v", chunks[0], chunks[1])
	}
	for _, c := range chunks {
		if c.VideoID != "vid" {
			t.Errorf("chunk missing video_id: %+v", c)
		}
	}
}
