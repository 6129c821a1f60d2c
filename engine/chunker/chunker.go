// Package chunker turns the ordered timed segments of one transcript into
// overlapping chunks targeting 20-30 seconds of audio each. Chunks feed the
// embedding stage; the one-segment overlap between consecutive chunks keeps
// context continuous across chunk borders.
package chunker

import "strings"

const (
	// MinChunkSeconds is the minimum target duration of a chunk.
	MinChunkSeconds = 20.0
	// MaxChunkSeconds is the maximum target duration of a chunk.
	MaxChunkSeconds = 30.0
	// OverlapSegments is the number of segments shared between consecutive
	// chunks.
	OverlapSegments = 1
)

// Segment is the smallest timed unit of a transcript: one caption or
// Whisper entry. Segments are read-only inputs here; Build never mutates
// them. IDs are opaque and need not be contiguous.
type Segment struct {
	ID       int64
	Index    int
	Start    float64
	Duration float64
	End      float64
	Text     string
}

// Boundary identifies one chunk as an inclusive run of segments, by the
// first and last segment IDs, with the covered time range.
type Boundary struct {
	FirstSegmentID int64
	LastSegmentID  int64
	Start          float64
	End            float64
}

// Build partitions segments (ordered by index, one transcript) into
// overlapping boundaries. Greedy single pass: each chunk grows until it
// reaches the 20-30s band, preferring to stop inside the band, and absorbing
// one segment past the maximum only when the minimum would otherwise not be
// met. The next chunk starts OverlapSegments before the end of the previous
// one; when that would not advance the cursor (single-segment chunk), it
// starts right after instead so the loop always terminates.
//
// Every segment lands in at least one chunk. Empty input yields nil. The
// result is deterministic: same segments, same boundaries.
func Build(segments []Segment) []Boundary {
	if len(segments) == 0 {
		return nil
	}

	var chunks []Boundary
	n := len(segments)
	i := 0

	for i < n {
		j := i
		chunkStart := segments[i].Start
		chunkEnd := segments[j].End

		for j+1 < n {
			tentativeEnd := segments[j+1].End
			tentativeDur := tentativeEnd - chunkStart

			if tentativeDur < MinChunkSeconds {
				j++
				chunkEnd = tentativeEnd
				continue
			}

			if tentativeDur <= MaxChunkSeconds {
				// Landed inside the target band: take the segment and stop.
				j++
				chunkEnd = tentativeEnd
				break
			}

			// Taking the next segment would overshoot the maximum.
			if chunkEnd-chunkStart >= MinChunkSeconds {
				break
			}
			// Still under the minimum: absorb anyway so the minimum holds.
			j++
			chunkEnd = tentativeEnd
			break
		}

		chunks = append(chunks, Boundary{
			FirstSegmentID: segments[i].ID,
			LastSegmentID:  segments[j].ID,
			Start:          segments[i].Start,
			End:            segments[j].End,
		})

		next := j - OverlapSegments + 1
		if next <= i {
			next = j + 1
		}
		i = next
	}

	return chunks
}

// AggregateText joins the trimmed texts of the segments covered by b with
// single spaces, in order, skipping empty entries. The boundary IDs are
// located by lookup, not arithmetic. If either ID is not present in
// segments the result is an empty string: a stale boundary should not fail
// the rest of the pipeline.
func AggregateText(segments []Segment, b Boundary) string {
	first, last := -1, -1
	for i, s := range segments {
		if s.ID == b.FirstSegmentID && first == -1 {
			first = i
		}
		if s.ID == b.LastSegmentID {
			last = i
		}
	}
	if first == -1 || last == -1 || last < first {
		return ""
	}

	parts := make([]string, 0, last-first+1)
	for _, s := range segments[first : last+1] {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
