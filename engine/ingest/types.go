package ingest

// VideoEvent announces a pipeline event for one video over NATS.
type VideoEvent struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Chunks  int    `json:"chunks,omitempty"`
}

// BatchReport summarizes a batch run. Failures never abort the batch; they
// are counted and logged so one broken video can't stall the rest.
type BatchReport struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}
