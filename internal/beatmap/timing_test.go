package beatmap

import "testing"

func TestTimingAt(t *testing.T) {
	timing := Timing{
		Points: []TimingPoint{
			{Time: 0, BeatLength: 500, Uninherited: true},
			{Time: 1000, BeatLength: -50, Uninherited: false},
			{Time: 2000, BeatLength: 400, Uninherited: true},
		},
		SliderMultiplier: 1.0,
	}

	t.Run("defaults before any point", func(t *testing.T) {
		empty := Timing{}
		beatLength, velocity := empty.At(0)
		if beatLength != defaultBeatLength || velocity != 1.0 {
			t.Errorf("got (%v, %v), want (%v, 1.0)", beatLength, velocity, defaultBeatLength)
		}
	})

	t.Run("tempo point sets beat length", func(t *testing.T) {
		beatLength, velocity := timing.At(500)
		if beatLength != 500 || velocity != 1.0 {
			t.Errorf("got (%v, %v), want (500, 1.0)", beatLength, velocity)
		}
	})

	t.Run("inherited point scales velocity", func(t *testing.T) {
		beatLength, velocity := timing.At(1500)
		if beatLength != 500 || velocity != 2.0 {
			t.Errorf("got (%v, %v), want (500, 2.0)", beatLength, velocity)
		}
	})

	t.Run("new tempo point resets velocity", func(t *testing.T) {
		beatLength, velocity := timing.At(3000)
		if beatLength != 400 || velocity != 1.0 {
			t.Errorf("got (%v, %v), want (400, 1.0)", beatLength, velocity)
		}
	})

	t.Run("point applies at its exact time", func(t *testing.T) {
		beatLength, _ := timing.At(2000)
		if beatLength != 400 {
			t.Errorf("beatLength = %v, want 400", beatLength)
		}
	})
}

func TestSliderDuration(t *testing.T) {
	timing := Timing{
		Points:           []TimingPoint{{Time: 0, BeatLength: 500, Uninherited: true}},
		SliderMultiplier: 1.0,
	}

	t.Run("single slide", func(t *testing.T) {
		if d := timing.SliderDuration(0, 100, 1); d != 500 {
			t.Errorf("duration = %v, want 500", d)
		}
	})

	t.Run("repeats multiply", func(t *testing.T) {
		if d := timing.SliderDuration(0, 100, 3); d != 1500 {
			t.Errorf("duration = %v, want 1500", d)
		}
	})

	t.Run("zero multiplier treated as one", func(t *testing.T) {
		zero := Timing{Points: timing.Points}
		if d := zero.SliderDuration(0, 100, 1); d != 500 {
			t.Errorf("duration = %v, want 500", d)
		}
	})

	t.Run("doubled velocity halves duration", func(t *testing.T) {
		fast := Timing{
			Points: append(timing.Points, TimingPoint{Time: 0, BeatLength: -50}),
		}
		if d := fast.SliderDuration(0, 100, 1); d != 250 {
			t.Errorf("duration = %v, want 250", d)
		}
	})
}
