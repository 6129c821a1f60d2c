// Package graph provides Neo4j storage for videos, transcripts, chunks, and tags.
package graph

import "time"

// Video is a lecture video node. The Hebrew date fields are filled in by the
// metadata extraction pass and stay empty until then.
type Video struct {
	VideoID         string    `json:"video_id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`

	HebrewDate string     `json:"hebrew_date,omitempty"`
	DayOfWeek  string     `json:"day_of_week,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	CivilDate  *time.Time `json:"civil_date,omitempty"`
}

// Segment is one timed transcript line of a video. Index is the zero-based
// position within the video and doubles as the segment's ID in chunk
// boundaries.
type Segment struct {
	VideoID  string  `json:"video_id"`
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
}

// Chunk is an aggregated window of consecutive segments. FirstIndex and
// LastIndex are inclusive segment indices; together with VideoID they
// uniquely identify the chunk.
type Chunk struct {
	VideoID    string  `json:"video_id"`
	FirstIndex int     `json:"first_index"`
	LastIndex  int     `json:"last_index"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
}

// TagCount is a tag name with the number of videos carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
