package beatmap

// Bucket counts for discretizing spans into highlight ranges. Coverage uses
// a coarse grid; bookmarks use a finer one since they mark instants.
const (
	objectBuckets   = 120
	bookmarkBuckets = 200
	// bookmarkWidth widens each bookmark bucket so single-instant markers
	// stay visible at any render width.
	bookmarkWidth = 1.2
)

// RangeKind tags what a highlight range represents.
type RangeKind string

const (
	RangeObject   RangeKind = "object"
	RangeBreak    RangeKind = "break"
	RangeBookmark RangeKind = "bookmark"
)

// HighlightRange is a [0,1]-normalized fraction of the track duration.
// Ranges always satisfy End > Start; zero-width ranges are never emitted.
type HighlightRange struct {
	Start float64
	End   float64
	Kind  RangeKind
}

// BuildObjectRanges bins the index-aligned start/end spans into 120 buckets
// scaled by durationMS and merges contiguous filled buckets into ranges.
// Returns nil when the duration is unknown or there are no objects.
func BuildObjectRanges(starts, ends []int, durationMS int) []HighlightRange {
	if durationMS <= 0 || len(starts) == 0 {
		return nil
	}

	var filled [objectBuckets]bool
	for i, start := range starts {
		if i >= len(ends) {
			break
		}
		end := ends[i]
		if end < start || end < 0 || start > durationMS {
			continue
		}
		lo := bucketIndex(start, durationMS, objectBuckets)
		hi := bucketIndex(end, durationMS, objectBuckets)
		for b := lo; b <= hi; b++ {
			filled[b] = true
		}
	}

	return mergeBuckets(filled[:], RangeObject)
}

// BuildBreakRanges scales break periods directly into [0,1] without
// bucketing, dropping zero- and negative-width results.
func BuildBreakRanges(breaks []TimeRange, durationMS int) []HighlightRange {
	if durationMS <= 0 || len(breaks) == 0 {
		return nil
	}

	var ranges []HighlightRange
	total := float64(durationMS)
	for _, br := range breaks {
		start := clamp01(float64(br.Start) / total)
		end := clamp01(float64(br.End) / total)
		if end > start {
			ranges = append(ranges, HighlightRange{Start: start, End: end, Kind: RangeBreak})
		}
	}
	return ranges
}

// BuildBookmarkRanges bins bookmark timestamps into 200 buckets; each filled
// bucket emits a slightly widened range so the marker has visible width. The
// final bucket's end may exceed 1.0 by at most bookmarkWidth/200.
func BuildBookmarkRanges(bookmarks []int, durationMS int) []HighlightRange {
	if durationMS <= 0 || len(bookmarks) == 0 {
		return nil
	}

	var filled [bookmarkBuckets]bool
	for _, t := range bookmarks {
		if t < 0 || t > durationMS {
			continue
		}
		filled[bucketIndex(t, durationMS, bookmarkBuckets)] = true
	}

	var ranges []HighlightRange
	for i, on := range filled {
		if !on {
			continue
		}
		ranges = append(ranges, HighlightRange{
			Start: float64(i) / bookmarkBuckets,
			End:   (float64(i) + bookmarkWidth) / bookmarkBuckets,
			Kind:  RangeBookmark,
		})
	}
	return ranges
}

// BuildAll concatenates break, object, and bookmark ranges in storage order.
// Renderers re-sort to draw bookmarks last.
func BuildAll(p *Parsed, durationMS int) []HighlightRange {
	var ranges []HighlightRange
	ranges = append(ranges, BuildBreakRanges(p.Breaks, durationMS)...)
	ranges = append(ranges, BuildObjectRanges(p.HitStarts, p.HitEnds, durationMS)...)
	ranges = append(ranges, BuildBookmarkRanges(p.Bookmarks, durationMS)...)
	return ranges
}

// bucketIndex maps t to its bucket, clamping to the final bucket so that
// t == duration lands inside the grid.
func bucketIndex(t, durationMS, buckets int) int {
	if t < 0 {
		return 0
	}
	b := int(float64(t) / float64(durationMS) * float64(buckets))
	if b >= buckets {
		b = buckets - 1
	}
	return b
}

// mergeBuckets collapses runs of filled buckets into ranges. A run that
// reaches the final bucket is extended to exactly 1.0.
func mergeBuckets(filled []bool, kind RangeKind) []HighlightRange {
	var ranges []HighlightRange
	n := len(filled)
	total := float64(n)

	runStart := -1
	for i := 0; i <= n; i++ {
		if i < n && filled[i] {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			start := float64(runStart) / total
			end := float64(i) / total
			if i == n {
				end = 1.0
			}
			if end > start {
				ranges = append(ranges, HighlightRange{Start: start, End: end, Kind: kind})
			}
			runStart = -1
		}
	}
	return ranges
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
