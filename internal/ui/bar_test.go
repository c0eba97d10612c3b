package ui

import (
	"strings"
	"testing"
)

func cellCount(bar string) int {
	return strings.Count(bar, "█") + strings.Count(bar, "░")
}

func TestRenderHighlightBar(t *testing.T) {
	t.Run("empty highlights fill with background", func(t *testing.T) {
		bar := renderHighlightBar("[]", 20)
		if got := cellCount(bar); got != 20 {
			t.Errorf("cell count = %d, want 20", got)
		}
		if strings.Count(bar, "█") != 0 {
			t.Error("expected no filled cells")
		}
	})

	t.Run("object range fills its cells", func(t *testing.T) {
		bar := renderHighlightBar(`[[0.0,0.5,"o"]]`, 20)
		if got := strings.Count(bar, "█"); got != 10 {
			t.Errorf("filled cells = %d, want 10", got)
		}
		if got := cellCount(bar); got != 20 {
			t.Errorf("cell count = %d, want 20", got)
		}
	})

	t.Run("narrow range paints at least one cell", func(t *testing.T) {
		bar := renderHighlightBar(`[[0.5,0.501,"k"]]`, 20)
		if got := strings.Count(bar, "█"); got != 1 {
			t.Errorf("filled cells = %d, want 1", got)
		}
	})

	t.Run("invalid data degrades to empty bar", func(t *testing.T) {
		bar := renderHighlightBar("not json", 10)
		if got := cellCount(bar); got != 10 {
			t.Errorf("cell count = %d, want 10", got)
		}
	})

	t.Run("zero width", func(t *testing.T) {
		if bar := renderHighlightBar("[]", 0); bar != "" {
			t.Errorf("expected empty string, got %q", bar)
		}
	})
}
