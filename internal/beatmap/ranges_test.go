package beatmap

import (
	"math"
	"testing"
)

func TestBuildObjectRanges(t *testing.T) {
	t.Run("adjacent buckets merge", func(t *testing.T) {
		starts := []int{0, 2000}
		ends := []int{1000, 3000}
		ranges := BuildObjectRanges(starts, ends, 10000)

		if len(ranges) != 2 {
			t.Fatalf("expected 2 ranges, got %d: %+v", len(ranges), ranges)
		}

		tol := 1.5 / float64(objectBuckets)
		wantPairs := [][2]float64{{0.0, 0.1}, {0.2, 0.3}}
		for i, want := range wantPairs {
			if math.Abs(ranges[i].Start-want[0]) > tol {
				t.Errorf("range %d start = %v, want ~%v", i, ranges[i].Start, want[0])
			}
			if math.Abs(ranges[i].End-want[1]) > tol {
				t.Errorf("range %d end = %v, want ~%v", i, ranges[i].End, want[1])
			}
			if ranges[i].Kind != RangeObject {
				t.Errorf("range %d kind = %q", i, ranges[i].Kind)
			}
		}
	})

	t.Run("final run reaches exactly one", func(t *testing.T) {
		ranges := BuildObjectRanges([]int{9900}, []int{10000}, 10000)
		if len(ranges) != 1 {
			t.Fatalf("expected 1 range, got %d", len(ranges))
		}
		if ranges[0].End != 1.0 {
			t.Errorf("final range end = %v, want 1.0", ranges[0].End)
		}
	})

	t.Run("zero duration yields nothing", func(t *testing.T) {
		if got := BuildObjectRanges([]int{0}, []int{100}, 0); len(got) != 0 {
			t.Errorf("expected no ranges, got %+v", got)
		}
	})

	t.Run("empty objects yield nothing", func(t *testing.T) {
		if got := BuildObjectRanges(nil, nil, 10000); len(got) != 0 {
			t.Errorf("expected no ranges, got %+v", got)
		}
	})
}

func TestBuildBreakRanges(t *testing.T) {
	t.Run("direct scale", func(t *testing.T) {
		breaks := []TimeRange{{Start: 2500, End: 5000}}
		ranges := BuildBreakRanges(breaks, 10000)

		if len(ranges) != 1 {
			t.Fatalf("expected 1 range, got %d", len(ranges))
		}
		if ranges[0].Start != 0.25 || ranges[0].End != 0.5 {
			t.Errorf("range = [%v,%v], want [0.25,0.5]", ranges[0].Start, ranges[0].End)
		}
		if ranges[0].Kind != RangeBreak {
			t.Errorf("kind = %q", ranges[0].Kind)
		}
	})

	t.Run("clamped to unit interval", func(t *testing.T) {
		breaks := []TimeRange{{Start: -500, End: 12000}}
		ranges := BuildBreakRanges(breaks, 10000)
		if ranges[0].Start != 0.0 || ranges[0].End != 1.0 {
			t.Errorf("range = [%v,%v], want [0,1]", ranges[0].Start, ranges[0].End)
		}
	})

	t.Run("degenerate after clamping dropped", func(t *testing.T) {
		breaks := []TimeRange{{Start: 11000, End: 12000}}
		if got := BuildBreakRanges(breaks, 10000); len(got) != 0 {
			t.Errorf("expected no ranges, got %+v", got)
		}
	})
}

func TestBuildBookmarkRanges(t *testing.T) {
	t.Run("widened ticks", func(t *testing.T) {
		ranges := BuildBookmarkRanges([]int{0, 5000}, 10000)
		if len(ranges) != 2 {
			t.Fatalf("expected 2 ranges, got %d", len(ranges))
		}

		width := bookmarkWidth / float64(bookmarkBuckets)
		for _, r := range ranges {
			if r.Kind != RangeBookmark {
				t.Errorf("kind = %q", r.Kind)
			}
			if got := r.End - r.Start; math.Abs(got-width) > 1e-9 {
				t.Errorf("width = %v, want %v", got, width)
			}
		}
	})

	t.Run("last bucket may exceed one slightly", func(t *testing.T) {
		ranges := BuildBookmarkRanges([]int{10000}, 10000)
		if len(ranges) != 1 {
			t.Fatalf("expected 1 range, got %d", len(ranges))
		}
		limit := 1.0 + bookmarkWidth/float64(bookmarkBuckets)
		if ranges[0].End > limit {
			t.Errorf("end = %v, exceeds %v", ranges[0].End, limit)
		}
	})

	t.Run("duplicate bookmarks collapse", func(t *testing.T) {
		ranges := BuildBookmarkRanges([]int{5000, 5001}, 10000)
		if len(ranges) != 1 {
			t.Errorf("expected 1 range, got %d: %+v", len(ranges), ranges)
		}
	})
}

func TestBuildAll(t *testing.T) {
	p := Parse(sampleMap)
	ranges := BuildAll(p, 10000)

	if len(ranges) == 0 {
		t.Fatal("expected ranges")
	}

	// Breaks come first, then objects, then bookmarks.
	lastBreak, firstObject, lastObject, firstBookmark := -1, -1, -1, -1
	for i, r := range ranges {
		switch r.Kind {
		case RangeBreak:
			lastBreak = i
		case RangeObject:
			if firstObject < 0 {
				firstObject = i
			}
			lastObject = i
		case RangeBookmark:
			if firstBookmark < 0 {
				firstBookmark = i
			}
		}
	}
	if lastBreak >= 0 && firstObject >= 0 && lastBreak > firstObject {
		t.Error("break range after object range")
	}
	if lastObject >= 0 && firstBookmark >= 0 && lastObject > firstBookmark {
		t.Error("object range after bookmark range")
	}

	for i, r := range ranges {
		if r.Start < 0 || r.Start >= r.End {
			t.Errorf("range %d invalid: [%v,%v]", i, r.Start, r.End)
		}
	}
}
