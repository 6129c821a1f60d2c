// Package semantic owns the Qdrant vector collections for chunk and subject
// embeddings.
package semantic

import "github.com/google/uuid"

// Kind selects which embedding collection an operation targets.
type Kind string

const (
	KindChunks   Kind = "chunks"
	KindSubjects Kind = "subjects"
)

// PointID derives a stable UUID for a record key like "chunk:VIDEO:0:2" or
// "subject:VIDEO", so re-embedding the same record always lands on the same
// Qdrant point.
func PointID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// VectorRecord is a single vector to store.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Payload   map[string]any // video_id, text, hebrew_date, subject, first_idx, last_idx
}

// SearchResult is a single similarity hit.
type SearchResult struct {
	ID      string            `json:"id"`
	Score   float32           `json:"score"`
	VideoID string            `json:"video_id"`
	Text    string            `json:"text"`
	Meta    map[string]string `json:"meta"`
}
