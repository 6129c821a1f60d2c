package chunker

import (
	"math/rand"
	"reflect"
	"testing"
)

// segs builds contiguous segments from a list of (start, end) pairs.
func segs(bounds ...[2]float64) []Segment {
	out := make([]Segment, len(bounds))
	for i, b := range bounds {
		out[i] = Segment{
			ID:       int64(i + 1),
			Index:    i,
			Start:    b[0],
			End:      b[1],
			Duration: b[1] - b[0],
			Text:     "seg",
		}
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	if got := Build(nil); got != nil {
		t.Errorf("Build(nil) = %v, want nil", got)
	}
	if got := Build([]Segment{}); got != nil {
		t.Errorf("Build(empty) = %v, want nil", got)
	}
}

func TestBuild_SixSegments(t *testing.T) {
	in := segs(
		[2]float64{0, 5},
		[2]float64{5, 13},
		[2]float64{13, 22},
		[2]float64{22, 29},
		[2]float64{29, 35},
		[2]float64{35, 39},
	)
	got := Build(in)

	want := []Boundary{
		{FirstSegmentID: 1, LastSegmentID: 3, Start: 0, End: 22},
		{FirstSegmentID: 3, LastSegmentID: 5, Start: 13, End: 35},
		{FirstSegmentID: 5, LastSegmentID: 6, Start: 29, End: 39},
		{FirstSegmentID: 6, LastSegmentID: 6, Start: 35, End: 39},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Build = %+v, want %+v", got, want)
	}

	// The second chunk must start at the overlap segment of the first.
	if got[1].FirstSegmentID != got[0].LastSegmentID {
		t.Errorf("chunk 2 starts at %d, want overlap segment %d",
			got[1].FirstSegmentID, got[0].LastSegmentID)
	}
}

func TestBuild_SingleSegment(t *testing.T) {
	in := segs([2]float64{0, 7})
	got := Build(in)
	want := []Boundary{{FirstSegmentID: 1, LastSegmentID: 1, Start: 0, End: 7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Build = %+v, want %+v", got, want)
	}
}

func TestBuild_OversizedSegmentAbsorbedToMeetMinimum(t *testing.T) {
	// Second segment alone would push the chunk past the maximum, but the
	// first is under the minimum, so it is absorbed anyway.
	in := segs([2]float64{0, 10}, [2]float64{10, 45}, [2]float64{45, 50})
	got := Build(in)
	if got[0].LastSegmentID != 2 || got[0].End != 45 {
		t.Fatalf("first chunk = %+v, want to cover segments 1-2 ending at 45", got[0])
	}
}

func TestBuild_StopsBeforeOvershootWhenMinimumMet(t *testing.T) {
	// 22s accumulated already meets the minimum; the next segment would
	// overshoot, so it is left for the next chunk.
	in := segs([2]float64{0, 22}, [2]float64{22, 50}, [2]float64{50, 72})
	got := Build(in)
	if got[0].LastSegmentID != 1 || got[0].End != 22 {
		t.Fatalf("first chunk = %+v, want to stop at segment 1 (22s)", got[0])
	}
	if got[1].FirstSegmentID != 2 {
		t.Fatalf("second chunk = %+v, want to start at segment 2", got[1])
	}
}

func TestBuild_Deterministic(t *testing.T) {
	in := randomSegments(rand.New(rand.NewSource(7)), 500)
	a := Build(in)
	b := Build(in)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Build is not deterministic for identical input")
	}
}

// randomSegments generates n contiguous segments with durations in
// [0.5, 8.5) seconds.
func randomSegments(rng *rand.Rand, n int) []Segment {
	out := make([]Segment, n)
	start := 0.0
	for i := range out {
		d := 0.5 + rng.Float64()*8
		out[i] = Segment{
			ID:       int64(1000 + i*3), // non-contiguous IDs on purpose
			Index:    i,
			Start:    start,
			End:      start + d,
			Duration: d,
			Text:     "x",
		}
		start += d
	}
	return out
}

func TestBuild_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(120)
		in := randomSegments(rng, n)
		chunks := Build(in)

		if len(chunks) == 0 {
			t.Fatalf("trial %d: no chunks for %d segments", trial, n)
		}
		if len(chunks) > n {
			t.Fatalf("trial %d: %d chunks for %d segments", trial, len(chunks), n)
		}

		idx := make(map[int64]int, n)
		for i, s := range in {
			idx[s.ID] = i
		}

		covered := make([]bool, n)
		prevLast := -1
		prevLen := 0
		for k, c := range chunks {
			first, ok1 := idx[c.FirstSegmentID]
			last, ok2 := idx[c.LastSegmentID]
			if !ok1 || !ok2 || last < first {
				t.Fatalf("trial %d chunk %d: bad boundary %+v", trial, k, c)
			}
			if c.Start != in[first].Start || c.End != in[last].End {
				t.Fatalf("trial %d chunk %d: boundary times mismatch", trial, k)
			}
			if c.End < c.Start {
				t.Fatalf("trial %d chunk %d: end before start", trial, k)
			}
			for i := first; i <= last; i++ {
				covered[i] = true
			}

			// Duration >= minimum for every chunk that does not reach the
			// end of the transcript. A chunk that runs out of segments may
			// be short, and the overlap rule can then append one more
			// single-segment chunk after it.
			if last != n-1 && c.End-c.Start < MinChunkSeconds {
				t.Fatalf("trial %d chunk %d: duration %.2f below minimum", trial, k, c.End-c.Start)
			}

			// Overlap: exactly one shared segment with the previous chunk,
			// except after a single-segment chunk, where the cursor is
			// forced forward instead.
			if k > 0 {
				if prevLen > 1 && first != prevLast {
					t.Fatalf("trial %d chunk %d: starts at %d, want overlap at %d", trial, k, first, prevLast)
				}
				if prevLen == 1 && first != prevLast+1 {
					t.Fatalf("trial %d chunk %d: starts at %d after single-segment chunk, want %d", trial, k, first, prevLast+1)
				}
			}
			prevLast = last
			prevLen = last - first + 1
		}

		for i, c := range covered {
			if !c {
				t.Fatalf("trial %d: segment %d not covered by any chunk", trial, i)
			}
		}
	}
}

func TestAggregateText(t *testing.T) {
	in := []Segment{
		{ID: 10, Index: 0, Text: "  first "},
		{ID: 20, Index: 1, Text: "second"},
		{ID: 30, Index: 2, Text: "   "},
		{ID: 40, Index: 3, Text: "fourth"},
	}
	got := AggregateText(in, Boundary{FirstSegmentID: 10, LastSegmentID: 40})
	if want := "first second fourth"; got != want {
		t.Errorf("AggregateText = %q, want %q", got, want)
	}

	got = AggregateText(in, Boundary{FirstSegmentID: 20, LastSegmentID: 30})
	if want := "second"; got != want {
		t.Errorf("AggregateText = %q, want %q", got, want)
	}
}

func TestAggregateText_MissingIDs(t *testing.T) {
	in := []Segment{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}
	for _, b := range []Boundary{
		{FirstSegmentID: 99, LastSegmentID: 2},
		{FirstSegmentID: 1, LastSegmentID: 99},
		{FirstSegmentID: 99, LastSegmentID: 98},
	} {
		if got := AggregateText(in, b); got != "" {
			t.Errorf("AggregateText(%+v) = %q, want empty", b, got)
		}
	}
}
