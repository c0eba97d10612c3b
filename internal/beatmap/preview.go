package beatmap

import (
	"strconv"
	"strings"
)

// DefaultMaxPreviewObjects bounds the number of objects a preview carries so
// pathological files with huge object counts stay renderable.
const DefaultMaxPreviewObjects = 8000

// ObjectKind classifies a hit object.
type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

func (k ObjectKind) String() string {
	switch k {
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	case KindHold:
		return "hold"
	default:
		return "circle"
	}
}

// Point is a playfield coordinate.
type Point struct {
	X int
	Y int
}

// Colour is one combo colour parsed from the [Colours] section.
type Colour struct {
	R int
	G int
	B int
}

// PreviewObject is the full geometry of a single hit object.
type PreviewObject struct {
	X         int
	Y         int
	Time      int
	EndTime   int
	Kind      ObjectKind
	HitSound  int
	NewCombo  bool
	ComboSkip int

	// Slider-only fields. CurveType is the path's first token character
	// ('B', 'L', 'C', or 'P'), defaulting to 'B' for Bezier.
	SliderPoints []Point
	CurveType    byte
	Slides       int
	Length       float64
}

// Preview is the full-fidelity parse used by the playfield renderer. Global
// fields stay complete even when the object list is truncated by the cap.
type Preview struct {
	Objects []PreviewObject

	CircleSize        float64
	ApproachRate      float64
	OverallDifficulty float64
	StackLeniency     float64
	Mode              int
	SliderMultiplier  float64
	BPMMin            float64
	BPMMax            float64
	ComboColours      []Colour
	MaxObjectTime     int
}

// PreviewOptions configures [ParsePreview]. The zero value takes defaults.
type PreviewOptions struct {
	// MaxObjects caps the object list; <= 0 means DefaultMaxPreviewObjects.
	MaxObjects int
}

// ParsePreview runs an independent full pass over the file producing
// per-object geometry plus global difficulty settings. Objects past the cap
// are skipped silently, but scanning continues so globals such as the BPM
// range and MaxObjectTime cover the whole file.
func ParsePreview(content string, opts PreviewOptions) *Preview {
	maxObjects := opts.MaxObjects
	if maxObjects <= 0 {
		maxObjects = DefaultMaxPreviewObjects
	}

	pv := &Preview{
		SliderMultiplier: 1.0,
		StackLeniency:    0.7,
	}
	seenAR := false
	var timing Timing

	sc := newLineScanner(content)
	for {
		line, ok := sc.next()
		if !ok {
			break
		}

		switch sc.sec {
		case secGeneral:
			key, val, ok := splitKeyVal(line)
			if !ok {
				continue
			}
			switch key {
			case "mode":
				if v, err := strconv.Atoi(val); err == nil && v >= 0 && v <= 3 {
					pv.Mode = v
				}
			case "stackleniency":
				pv.StackLeniency = parseFloat(val, 0.7)
			}

		case secDifficulty:
			key, val, ok := splitKeyVal(line)
			if !ok {
				continue
			}
			switch key {
			case "circlesize":
				pv.CircleSize = parseFloat(val, 0)
			case "overalldifficulty":
				pv.OverallDifficulty = parseFloat(val, 0)
				if !seenAR {
					// Old format versions omit ApproachRate and reuse OD.
					pv.ApproachRate = pv.OverallDifficulty
				}
			case "approachrate":
				pv.ApproachRate = parseFloat(val, 0)
				seenAR = true
			case "slidermultiplier":
				pv.SliderMultiplier = parseFloat(val, 1.0)
			}

		case secTimingPoints:
			if csvFieldCount(line) < 2 {
				continue
			}
			point := TimingPoint{
				Time:        parseInt(csvField(line, 0), 0),
				BeatLength:  parseFloat(csvField(line, 1), 500.0),
				Uninherited: true,
			}
			if csvFieldCount(line) >= 7 {
				point.Uninherited = strings.TrimSpace(csvField(line, 6)) == "1"
			}
			timing.Points = append(timing.Points, point)

			if point.Uninherited && point.BeatLength > 0 {
				bpm := 60000.0 / point.BeatLength
				if pv.BPMMin == 0 || bpm < pv.BPMMin {
					pv.BPMMin = bpm
				}
				if bpm > pv.BPMMax {
					pv.BPMMax = bpm
				}
			}

		case secColours:
			key, val, ok := splitKeyVal(line)
			if !ok || !strings.HasPrefix(key, "combo") {
				continue
			}
			if c, ok := parseColour(val); ok {
				pv.ComboColours = append(pv.ComboColours, c)
			}

		case secHitObjects:
			fields := csvFieldCount(line)
			if fields < 4 {
				continue
			}

			timing.SliderMultiplier = pv.SliderMultiplier
			obj, ok := parsePreviewObject(line, fields, timing)
			if !ok {
				continue
			}

			if obj.EndTime > pv.MaxObjectTime {
				pv.MaxObjectTime = obj.EndTime
			}
			if len(pv.Objects) < maxObjects {
				pv.Objects = append(pv.Objects, obj)
			}
		}
	}

	return pv
}

func parsePreviewObject(line string, fields int, timing Timing) (PreviewObject, bool) {
	typ := parseInt(csvField(line, 3), 0)
	obj := PreviewObject{
		X:         parseInt(csvField(line, 0), 0),
		Y:         parseInt(csvField(line, 1), 0),
		Time:      parseInt(csvField(line, 2), 0),
		HitSound:  parseInt(csvField(line, 4), 0),
		NewCombo:  isNewCombo(typ),
		ComboSkip: comboSkip(typ),
	}
	obj.EndTime = obj.Time

	switch {
	case isSlider(typ):
		obj.Kind = KindSlider
		obj.CurveType = 'B'
		if fields >= 6 {
			obj.CurveType, obj.SliderPoints = parseSliderPath(csvField(line, 5))
		}
		obj.Slides = 1
		if fields >= 7 {
			obj.Slides = parseInt(csvField(line, 6), 1)
		}
		if fields >= 8 {
			obj.Length = parseFloat(csvField(line, 7), 0)
		}
		duration := timing.SliderDuration(obj.Time, obj.Length, float64(obj.Slides))
		if duration > 0 {
			obj.EndTime = obj.Time + int(duration)
		}
	case isSpinner(typ):
		obj.Kind = KindSpinner
		if fields >= 6 {
			obj.EndTime = parseInt(csvField(line, 5), obj.Time)
		}
	case isHold(typ):
		obj.Kind = KindHold
		if fields >= 6 {
			obj.EndTime = holdEndTime(csvField(line, 5), obj.Time)
		}
	default:
		obj.Kind = KindCircle
	}

	if obj.EndTime < obj.Time {
		obj.EndTime = obj.Time
	}
	return obj, true
}

// parseSliderPath reads a "B|x:y|x:y|..." path spec. The curve type is the
// first character of the first token; unknown or missing types fall back to
// Bezier. Control point tokens that are not x:y pairs are skipped.
func parseSliderPath(spec string) (byte, []Point) {
	curveType := byte('B')
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return curveType, nil
	}

	tokens := strings.Split(spec, "|")
	first := strings.TrimSpace(tokens[0])
	if len(first) > 0 {
		switch first[0] {
		case 'L', 'C', 'P', 'B':
			curveType = first[0]
		}
	}

	var points []Point
	for _, token := range tokens[1:] {
		xy := strings.SplitN(strings.TrimSpace(token), ":", 2)
		if len(xy) != 2 {
			continue
		}
		x, errX := strconv.Atoi(xy[0])
		y, errY := strconv.Atoi(xy[1])
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, Point{X: x, Y: y})
	}
	return curveType, points
}

// parseColour reads "r,g,b" with each component clamped to [0,255].
func parseColour(val string) (Colour, bool) {
	parts := strings.Split(val, ",")
	if len(parts) < 3 {
		return Colour{}, false
	}
	clamp := func(s string) int {
		v := parseInt(s, -1)
		if v < 0 {
			return -1
		}
		if v > 255 {
			return 255
		}
		return v
	}
	r, g, b := clamp(parts[0]), clamp(parts[1]), clamp(parts[2])
	if r < 0 || g < 0 || b < 0 {
		return Colour{}, false
	}
	return Colour{R: r, G: g, B: b}, true
}
