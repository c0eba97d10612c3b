package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fax1015/mosu-cli/internal/beatmap"
	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

func previewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Parse a single .osu file into playfield geometry",
		ArgsUsage: "<file.osu>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the full preview (objects included) as JSON",
			},
			&cli.IntFlag{
				Name:  "max-objects",
				Usage: "Cap on parsed objects (0 uses the configured default)",
			},
		},
		Action: r.Preview,
	}
}

type previewObjectOut struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Time      int      `json:"time"`
	EndTime   int      `json:"end_time"`
	Kind      string   `json:"kind"`
	HitSound  int      `json:"hit_sound"`
	NewCombo  bool     `json:"new_combo"`
	ComboSkip int      `json:"combo_skip"`
	Curve     string   `json:"curve,omitempty"`
	Points    [][2]int `json:"points,omitempty"`
	Slides    int      `json:"slides,omitempty"`
	Length    float64  `json:"length,omitempty"`
}

type previewOut struct {
	CircleSize        float64            `json:"cs"`
	ApproachRate      float64            `json:"ar"`
	OverallDifficulty float64            `json:"od"`
	StackLeniency     float64            `json:"stack_leniency"`
	Mode              int                `json:"mode"`
	SliderMultiplier  float64            `json:"slider_multiplier"`
	BPMMin            float64            `json:"bpm_min"`
	BPMMax            float64            `json:"bpm_max"`
	MaxObjectTime     int                `json:"max_object_time"`
	ComboColours      [][3]int           `json:"combo_colours,omitempty"`
	Objects           []previewObjectOut `json:"objects"`
}

// Preview parses one beatmap file and prints its playfield geometry.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: path to a .osu file required", shared.ErrMissingArgument)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrFileNotFound, path)
	}

	maxObjects := int(cmd.Int("max-objects"))
	if maxObjects <= 0 {
		maxObjects = r.config.Library.MaxPreviewObjects
	}

	pv := beatmap.ParsePreview(string(content), beatmap.PreviewOptions{MaxObjects: maxObjects})

	if cmd.Bool("json") {
		return r.writeJSON(previewOutput(pv), true)
	}

	r.writePlain("Mode: %d  CS: %.1f  AR: %.1f  OD: %.1f\n", pv.Mode, pv.CircleSize, pv.ApproachRate, pv.OverallDifficulty)
	r.writePlain("Stack leniency: %.2f  Slider multiplier: %.2f\n", pv.StackLeniency, pv.SliderMultiplier)
	if pv.BPMMin > 0 {
		if pv.BPMMin == pv.BPMMax {
			r.writePlain("BPM: %.0f\n", pv.BPMMin)
		} else {
			r.writePlain("BPM: %.0f-%.0f\n", pv.BPMMin, pv.BPMMax)
		}
	}
	r.writePlain("Objects: %d (last at %s)\n", len(pv.Objects), shared.FormatDuration(pv.MaxObjectTime))
	if len(pv.ComboColours) > 0 {
		r.writePlain("Combo colours: %d\n", len(pv.ComboColours))
	}

	return nil
}

func previewOutput(pv *beatmap.Preview) previewOut {
	out := previewOut{
		CircleSize:        pv.CircleSize,
		ApproachRate:      pv.ApproachRate,
		OverallDifficulty: pv.OverallDifficulty,
		StackLeniency:     pv.StackLeniency,
		Mode:              pv.Mode,
		SliderMultiplier:  pv.SliderMultiplier,
		BPMMin:            pv.BPMMin,
		BPMMax:            pv.BPMMax,
		MaxObjectTime:     pv.MaxObjectTime,
	}

	for _, c := range pv.ComboColours {
		out.ComboColours = append(out.ComboColours, [3]int{c.R, c.G, c.B})
	}

	out.Objects = make([]previewObjectOut, 0, len(pv.Objects))
	for _, obj := range pv.Objects {
		o := previewObjectOut{
			X:         obj.X,
			Y:         obj.Y,
			Time:      obj.Time,
			EndTime:   obj.EndTime,
			Kind:      obj.Kind.String(),
			HitSound:  obj.HitSound,
			NewCombo:  obj.NewCombo,
			ComboSkip: obj.ComboSkip,
		}
		if obj.Kind == beatmap.KindSlider {
			o.Curve = string(obj.CurveType)
			o.Slides = obj.Slides
			o.Length = obj.Length
			for _, p := range obj.SliderPoints {
				o.Points = append(o.Points, [2]int{p.X, p.Y})
			}
		}
		out.Objects = append(out.Objects, o)
	}

	return out
}
