package beatmap

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestParsePreview(t *testing.T) {
	t.Run("difficulty settings", func(t *testing.T) {
		content := `[General]
Mode: 1
StackLeniency: 0.4

[Difficulty]
CircleSize:4.2
OverallDifficulty:8
ApproachRate:9.3
SliderMultiplier:1.6
`
		pv := ParsePreview(content, PreviewOptions{})
		if pv.Mode != 1 {
			t.Errorf("Mode = %d, want 1", pv.Mode)
		}
		if pv.StackLeniency != 0.4 {
			t.Errorf("StackLeniency = %v", pv.StackLeniency)
		}
		if pv.CircleSize != 4.2 {
			t.Errorf("CircleSize = %v", pv.CircleSize)
		}
		if pv.OverallDifficulty != 8 {
			t.Errorf("OverallDifficulty = %v", pv.OverallDifficulty)
		}
		if pv.ApproachRate != 9.3 {
			t.Errorf("ApproachRate = %v", pv.ApproachRate)
		}
		if pv.SliderMultiplier != 1.6 {
			t.Errorf("SliderMultiplier = %v", pv.SliderMultiplier)
		}
	})

	t.Run("approach rate defaults to overall difficulty", func(t *testing.T) {
		pv := ParsePreview("[Difficulty]\nOverallDifficulty:7\n", PreviewOptions{})
		if pv.ApproachRate != 7 {
			t.Errorf("ApproachRate = %v, want 7", pv.ApproachRate)
		}
	})

	t.Run("zero value defaults", func(t *testing.T) {
		pv := ParsePreview("", PreviewOptions{})
		if pv.StackLeniency != 0.7 {
			t.Errorf("StackLeniency = %v, want 0.7", pv.StackLeniency)
		}
		if pv.SliderMultiplier != 1.0 {
			t.Errorf("SliderMultiplier = %v, want 1.0", pv.SliderMultiplier)
		}
	})

	t.Run("bpm range from tempo points only", func(t *testing.T) {
		content := `[TimingPoints]
0,500,4,2,0,100,1,0
1000,-50,4,2,0,100,0,0
2000,300,4,2,0,100,1,0
`
		pv := ParsePreview(content, PreviewOptions{})
		if math.Abs(pv.BPMMin-120) > 1e-9 {
			t.Errorf("BPMMin = %v, want 120", pv.BPMMin)
		}
		if math.Abs(pv.BPMMax-200) > 1e-9 {
			t.Errorf("BPMMax = %v, want 200", pv.BPMMax)
		}
	})

	t.Run("combo colours", func(t *testing.T) {
		content := `[Colours]
Combo1 : 255,128,0
Combo2 : 0,300,64
SliderBorder : 255,255,255
`
		pv := ParsePreview(content, PreviewOptions{})
		want := []Colour{{R: 255, G: 128, B: 0}, {R: 0, G: 255, B: 64}}
		if !reflect.DeepEqual(pv.ComboColours, want) {
			t.Errorf("ComboColours = %+v, want %+v", pv.ComboColours, want)
		}
	})

	t.Run("object geometry", func(t *testing.T) {
		content := `[TimingPoints]
0,500,4,2,0,100,1,0

[HitObjects]
64,96,1000,5,2,0:0:0:0:
100,100,2000,2,0,P|150:150|200:100,2,100
256,192,4000,12,0,6000
32,192,7000,128,0,8000:0:0:0:0:
`
		pv := ParsePreview(content, PreviewOptions{})
		if len(pv.Objects) != 4 {
			t.Fatalf("expected 4 objects, got %d", len(pv.Objects))
		}

		circle := pv.Objects[0]
		if circle.Kind != KindCircle || circle.X != 64 || circle.Y != 96 {
			t.Errorf("circle = %+v", circle)
		}
		if !circle.NewCombo {
			t.Error("circle should start a new combo")
		}
		if circle.HitSound != 2 {
			t.Errorf("HitSound = %d, want 2", circle.HitSound)
		}

		slider := pv.Objects[1]
		if slider.Kind != KindSlider {
			t.Errorf("Kind = %v, want slider", slider.Kind)
		}
		if slider.CurveType != 'P' {
			t.Errorf("CurveType = %c, want P", slider.CurveType)
		}
		wantPoints := []Point{{X: 150, Y: 150}, {X: 200, Y: 100}}
		if !reflect.DeepEqual(slider.SliderPoints, wantPoints) {
			t.Errorf("SliderPoints = %+v, want %+v", slider.SliderPoints, wantPoints)
		}
		if slider.Slides != 2 || slider.Length != 100 {
			t.Errorf("Slides = %d, Length = %v", slider.Slides, slider.Length)
		}
		// 100 / 100 * 500 * 2 = 1000ms
		if slider.EndTime != 3000 {
			t.Errorf("slider EndTime = %d, want 3000", slider.EndTime)
		}

		spinner := pv.Objects[2]
		if spinner.Kind != KindSpinner || spinner.EndTime != 6000 {
			t.Errorf("spinner = %+v", spinner)
		}

		hold := pv.Objects[3]
		if hold.Kind != KindHold || hold.EndTime != 8000 {
			t.Errorf("hold = %+v", hold)
		}
		if pv.MaxObjectTime != 8000 {
			t.Errorf("MaxObjectTime = %d, want 8000", pv.MaxObjectTime)
		}
	})

	t.Run("combo skip bits", func(t *testing.T) {
		// type 1 | 4 | (3<<4) = 53
		pv := ParsePreview("[HitObjects]\n0,0,1000,53,0\n", PreviewOptions{})
		if len(pv.Objects) != 1 {
			t.Fatalf("expected 1 object, got %d", len(pv.Objects))
		}
		if pv.Objects[0].ComboSkip != 3 {
			t.Errorf("ComboSkip = %d, want 3", pv.Objects[0].ComboSkip)
		}
	})

	t.Run("object cap keeps globals complete", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("[TimingPoints]\n0,500,4,2,0,100,1,0\n")
		sb.WriteString("[HitObjects]\n")
		for i := 0; i < 20; i++ {
			fmt.Fprintf(&sb, "0,0,%d,1,0\n", i*1000)
		}

		pv := ParsePreview(sb.String(), PreviewOptions{MaxObjects: 5})
		if len(pv.Objects) != 5 {
			t.Errorf("expected 5 objects, got %d", len(pv.Objects))
		}
		if pv.MaxObjectTime != 19000 {
			t.Errorf("MaxObjectTime = %d, want 19000", pv.MaxObjectTime)
		}
		if pv.BPMMin != 120 || pv.BPMMax != 120 {
			t.Errorf("BPM = [%v,%v], want [120,120]", pv.BPMMin, pv.BPMMax)
		}
	})
}

func TestParseSliderPath(t *testing.T) {
	t.Run("default curve type", func(t *testing.T) {
		curveType, points := parseSliderPath("")
		if curveType != 'B' || points != nil {
			t.Errorf("got %c %+v", curveType, points)
		}
	})

	t.Run("unknown type falls back to bezier", func(t *testing.T) {
		curveType, _ := parseSliderPath("X|100:100")
		if curveType != 'B' {
			t.Errorf("CurveType = %c, want B", curveType)
		}
	})

	t.Run("bad tokens skipped", func(t *testing.T) {
		_, points := parseSliderPath("L|100:100|bogus|200:abc|300:50")
		want := []Point{{X: 100, Y: 100}, {X: 300, Y: 50}}
		if !reflect.DeepEqual(points, want) {
			t.Errorf("points = %+v, want %+v", points, want)
		}
	})
}

func TestObjectKindString(t *testing.T) {
	cases := map[ObjectKind]string{
		KindCircle:  "circle",
		KindSlider:  "slider",
		KindSpinner: "spinner",
		KindHold:    "hold",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
