package graph

import (
	"testing"
	"time"
)

func TestVideoProps_RoundTrip(t *testing.T) {
	civil := time.Date(2025, 9, 25, 0, 0, 0, 0, time.UTC)
	v := Video{
		VideoID:         "abc123",
		URL:             "https://www.youtube.com/watch?v=abc123",
		Title:           "הלכה יומית - ג' תשרי התשפ\"ו - הלכות תשובה",
		PublishedAt:     time.Date(2025, 9, 25, 6, 30, 0, 0, time.UTC),
		DurationSeconds: 312,
		HebrewDate:      "ג' תשרי התשפ\"ו",
		DayOfWeek:       "חמישי",
		Subject:         "הלכות תשובה",
		CivilDate:       &civil,
	}

	got := videoFromProps(videoToMap(v))
	if got.VideoID != v.VideoID || got.Title != v.Title || got.DurationSeconds != 312 {
		t.Errorf("basic fields lost: %+v", got)
	}
	if !got.PublishedAt.Equal(v.PublishedAt) {
		t.Errorf("published_at = %v", got.PublishedAt)
	}
	if got.CivilDate == nil || !got.CivilDate.Equal(civil) {
		t.Errorf("civil_date = %v", got.CivilDate)
	}
	if got.HebrewDate != v.HebrewDate || got.DayOfWeek != "חמישי" {
		t.Errorf("metadata fields lost: %+v", got)
	}
}

func TestVideoFromProps_MissingFields(t *testing.T) {
	v := videoFromProps(map[string]any{"video_id": "x"})
	if v.VideoID != "x" {
		t.Fatalf("video_id = %q", v.VideoID)
	}
	if v.CivilDate != nil {
		t.Error("civil_date should be nil when absent")
	}
	if !v.PublishedAt.IsZero() {
		t.Error("published_at should be zero when absent")
	}
}

func TestSegmentFromProps_NumericTypes(t *testing.T) {
	// Neo4j returns integers as int64 and floats as float64; both appear for
	// time properties depending on how they were written.
	s := segmentFromProps(map[string]any{
		"video_id": "abc",
		"idx":      int64(4),
		"start":    int64(12),
		"duration": 3.5,
		"end":      15.5,
		"text":     "שלום",
	})
	if s.Index != 4 || s.Start != 12 || s.Duration != 3.5 || s.End != 15.5 {
		t.Errorf("segment = %+v", s)
	}
}

func TestChunkFromProps(t *testing.T) {
	c := chunkFromProps(map[string]any{
		"video_id":  "abc",
		"first_idx": int64(0),
		"last_idx":  int64(2),
		"start":     0.0,
		"end":       22.0,
		"text":      "א ב ג",
	})
	if c.FirstIndex != 0 || c.LastIndex != 2 || c.End != 22 {
		t.Errorf("chunk = %+v", c)
	}
}
