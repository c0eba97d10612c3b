package beatmap

// defaultBeatLength is 120 BPM expressed as milliseconds per beat, used
// before the first timing point.
const defaultBeatLength = 60000.0 / 120.0

// TimingPoint is one row of the [TimingPoints] section.
//
// Uninherited points redefine the tempo (BeatLength = ms per beat) and reset
// the slider-velocity multiplier to 1.0. Inherited points with a negative
// BeatLength encode a velocity multiplier of -100/BeatLength.
type TimingPoint struct {
	Time        int
	BeatLength  float64
	Uninherited bool
}

// Timing holds the ordered timing points of a map together with the global
// slider multiplier from [Difficulty]. Points keep file order; .osu files
// are assumed non-decreasing in time and are not re-sorted.
type Timing struct {
	Points           []TimingPoint
	SliderMultiplier float64
}

// At resolves the active beat length and slider-velocity multiplier at time
// t by walking points in order until one starts after t. Tempo comes from
// the last uninherited point seen; velocity from the last inherited point
// with a negative beat length, and resets to 1.0 on every tempo change.
func (tm Timing) At(t int) (beatLength, velocity float64) {
	beatLength = defaultBeatLength
	velocity = 1.0
	for _, p := range tm.Points {
		if p.Time > t {
			break
		}
		if p.Uninherited {
			beatLength = p.BeatLength
			velocity = 1.0
		} else if p.BeatLength < 0 {
			velocity = -100.0 / p.BeatLength
		}
	}
	return beatLength, velocity
}

// SliderDuration computes the travel time in milliseconds of a slider with
// the given path length and slide (repeat) count starting at time t.
func (tm Timing) SliderDuration(t int, length float64, slides float64) float64 {
	beatLength, velocity := tm.At(t)
	mult := tm.SliderMultiplier
	if mult == 0 {
		mult = 1.0
	}
	return length / (mult * 100.0 * velocity) * beatLength * slides
}
