package ui

import (
	"strings"

	"github.com/fax1015/mosu-cli/internal/beatmap"
)

var (
	objectCell   = NewStyle("#04B575").Render("█")
	breakCell    = NewStyle("#3C3C6E").Render("█")
	bookmarkCell = NewStyle("#FFA500").Render("█")
	emptyCell    = NewStyle("#2A2A2A").Render("░")
)

// renderHighlightBar draws the serialized highlight ranges as a fixed-width
// bar. Ranges stack in draw order: breaks underneath, objects over them,
// bookmark ticks on top.
func renderHighlightBar(highlights string, width int) string {
	if width <= 0 {
		return ""
	}

	ranges, err := beatmap.UnmarshalRanges(highlights)
	if err != nil || len(ranges) == 0 {
		return strings.Repeat(emptyCell, width)
	}

	cells := make([]beatmap.RangeKind, width)
	paint := func(kind beatmap.RangeKind) {
		for _, r := range ranges {
			if r.Kind != kind {
				continue
			}
			lo := int(r.Start * float64(width))
			hi := int(r.End * float64(width))
			if hi <= lo {
				hi = lo + 1
			}
			for c := lo; c < hi && c < width; c++ {
				if c >= 0 {
					cells[c] = kind
				}
			}
		}
	}
	paint(beatmap.RangeBreak)
	paint(beatmap.RangeObject)
	paint(beatmap.RangeBookmark)

	var sb strings.Builder
	for _, kind := range cells {
		switch kind {
		case beatmap.RangeObject:
			sb.WriteString(objectCell)
		case beatmap.RangeBreak:
			sb.WriteString(breakCell)
		case beatmap.RangeBookmark:
			sb.WriteString(bookmarkCell)
		default:
			sb.WriteString(emptyCell)
		}
	}
	return sb.String()
}
