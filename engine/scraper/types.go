package scraper

import "time"

// Video is the metadata for one video as discovered from a playlist or the
// channel feed.
type Video struct {
	VideoID         string    `json:"video_id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
}

// Playlist is a channel playlist with its item count.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ItemCount   int    `json:"item_count"`
}

// CaptionSegment is one timed line of a transcript, in seconds.
type CaptionSegment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Transcript is the full timed transcript of a video from one source.
type Transcript struct {
	VideoID  string           `json:"video_id"`
	Source   string           `json:"source"` // "youtube" or "whisper"
	Language string           `json:"language"`
	Segments []CaptionSegment `json:"segments"`
}
