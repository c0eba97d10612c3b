package beatmap

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind characters used in the compact tuple encoding.
const (
	kindCharObject   = "o"
	kindCharBreak    = "b"
	kindCharBookmark = "k"
)

// MarshalRanges encodes highlight ranges as compact JSON tuples
// [start, end, kind] with start/end rounded to 4 decimal places, e.g.
// [[0.05,0.1,"o"],[0.2,0.25,"b"]]. An empty input encodes as [].
func MarshalRanges(ranges []HighlightRange) (string, error) {
	tuples := make([][3]any, 0, len(ranges))
	for _, r := range ranges {
		var kindChar string
		switch r.Kind {
		case RangeBreak:
			kindChar = kindCharBreak
		case RangeBookmark:
			kindChar = kindCharBookmark
		default:
			kindChar = kindCharObject
		}
		tuples = append(tuples, [3]any{round4(r.Start), round4(r.End), kindChar})
	}

	data, err := json.Marshal(tuples)
	if err != nil {
		return "", fmt.Errorf("failed to encode highlight ranges: %w", err)
	}
	return string(data), nil
}

// UnmarshalRanges is the exact inverse of [MarshalRanges]. Tuples that do
// not have the [number, number, string] shape are skipped.
func UnmarshalRanges(data string) ([]HighlightRange, error) {
	if data == "" {
		return nil, nil
	}

	var tuples [][]any
	if err := json.Unmarshal([]byte(data), &tuples); err != nil {
		return nil, fmt.Errorf("failed to decode highlight ranges: %w", err)
	}

	var ranges []HighlightRange
	for _, tuple := range tuples {
		if len(tuple) != 3 {
			continue
		}
		start, okStart := tuple[0].(float64)
		end, okEnd := tuple[1].(float64)
		kindChar, okKind := tuple[2].(string)
		if !okStart || !okEnd || !okKind {
			continue
		}

		var kind RangeKind
		switch kindChar {
		case kindCharBreak:
			kind = RangeBreak
		case kindCharBookmark:
			kind = RangeBookmark
		case kindCharObject:
			kind = RangeObject
		default:
			continue
		}
		ranges = append(ranges, HighlightRange{Start: start, End: end, Kind: kind})
	}
	return ranges, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
