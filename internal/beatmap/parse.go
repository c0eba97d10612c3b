package beatmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hit-object type bitflags fixed by the .osu format.
const (
	flagCircle   = 1
	flagSlider   = 2
	flagNewCombo = 4
	flagSpinner  = 8
	flagHold     = 128
)

func isSlider(typ int) bool  { return typ&flagSlider != 0 }
func isSpinner(typ int) bool { return typ&flagSpinner != 0 }
func isHold(typ int) bool    { return typ&flagHold != 0 }
func isNewCombo(typ int) bool { return typ&flagNewCombo != 0 }

// comboSkip extracts the combo-colour skip count encoded in bits 4-6.
func comboSkip(typ int) int { return (typ >> 4) & 0b111 }

// Fallback strings shown in the UI when a map omits a metadata field.
const (
	UnknownTitle   = "Unknown Title"
	UnknownArtist  = "Unknown Artist"
	UnknownCreator = "Unknown Creator"
	UnknownVersion = "Unknown Version"
)

// Metadata is the normalized identity of a beatmap. String fields are never
// empty; absent values are replaced with the Unknown* fallbacks.
type Metadata struct {
	Title         string
	TitleUnicode  string
	Artist        string
	ArtistUnicode string
	Creator       string
	Version       string
	// BeatmapSetID is a beatmapset URL when the file carried a positive
	// integer id, otherwise the raw value (or "Unknown").
	BeatmapSetID string
	// Mode is the game mode, clamped to [0,3]. 0 = osu!standard.
	Mode        int
	Audio       string
	Background  string
	PreviewTime int
}

// TimeRange is an inclusive [Start, End] millisecond span.
type TimeRange struct {
	Start int
	End   int
}

// Parsed is the compact parse result consumed by the library item builder.
// HitStarts and HitEnds are index-aligned: object i spans
// [HitStarts[i], HitEnds[i]] with HitEnds[i] >= HitStarts[i].
type Parsed struct {
	Metadata  Metadata
	HitStarts []int
	HitEnds   []int
	Breaks    []TimeRange
	Bookmarks []int
	Timing    Timing
}

// LastObjectEnd returns the end time of the latest-ending hit object, used
// as a duration stand-in until the audio file has been probed.
func (p *Parsed) LastObjectEnd() int {
	last := 0
	for _, end := range p.HitEnds {
		if end > last {
			last = end
		}
	}
	return last
}

// Parse reads the full content of a .osu file into a [Parsed]. It never
// fails: unparseable lines are skipped and missing values take defaults.
func Parse(content string) *Parsed {
	p := &Parsed{
		Metadata: Metadata{PreviewTime: -1},
		Timing:   Timing{SliderMultiplier: 1.0},
	}

	var (
		bookmarksSeen bool
		prevType      int
		haveObjects   bool
	)

	sc := newLineScanner(content)
	for {
		line, ok := sc.next()
		if !ok {
			break
		}

		switch sc.sec {
		case secMetadata:
			key, val, ok := splitKeyVal(line)
			if !ok {
				continue
			}
			switch key {
			case "title":
				p.Metadata.Title = val
			case "titleunicode":
				p.Metadata.TitleUnicode = val
			case "artist":
				p.Metadata.Artist = val
			case "artistunicode":
				p.Metadata.ArtistUnicode = val
			case "creator":
				p.Metadata.Creator = val
			case "version":
				p.Metadata.Version = val
			case "beatmapsetid":
				p.Metadata.BeatmapSetID = BeatmapSetURL(val)
			}

		case secGeneral:
			key, val, ok := splitKeyVal(line)
			if !ok {
				continue
			}
			switch key {
			case "audiofilename":
				p.Metadata.Audio = val
			case "previewtime":
				if v, err := strconv.Atoi(val); err == nil {
					p.Metadata.PreviewTime = v
				}
			case "mode":
				if v, err := strconv.Atoi(val); err == nil {
					p.Metadata.Mode = v
				}
			}

		case secDifficulty:
			if key, val, ok := splitKeyVal(line); ok && key == "slidermultiplier" {
				p.Timing.SliderMultiplier = parseFloat(val, 1.0)
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
			p.Timing.Points = append(p.Timing.Points, point)

		case secEvents:
			if csvFieldCount(line) < 3 {
				continue
			}
			first := strings.TrimSpace(csvField(line, 0))
			if first == "2" || strings.EqualFold(first, "break") {
				start := parseInt(csvField(line, 1), -1)
				end := parseInt(csvField(line, 2), -1)
				if start >= 0 && end > start {
					p.Breaks = append(p.Breaks, TimeRange{Start: start, End: end})
				}
			}
			if first == "0" && p.Metadata.Background == "" {
				candidate := trimQuotes(strings.TrimSpace(csvField(line, 2)))
				if isImageFilename(candidate) {
					p.Metadata.Background = candidate
				}
			}

		case secEditor:
			key, val, ok := splitKeyVal(line)
			if !ok || key != "bookmarks" || bookmarksSeen {
				continue
			}
			bookmarksSeen = true
			for _, chunk := range strings.Split(val, ",") {
				if v, err := strconv.Atoi(strings.TrimSpace(chunk)); err == nil {
					p.Bookmarks = append(p.Bookmarks, v)
				}
			}

		case secHitObjects:
			fields := csvFieldCount(line)
			if fields < 4 {
				continue
			}
			start := parseInt(csvField(line, 2), 0)
			typ := parseInt(csvField(line, 3), 0)
			end := start

			switch {
			case isSlider(typ):
				if fields >= 8 {
					slides := parseFloat(csvField(line, 6), 1.0)
					length := parseFloat(csvField(line, 7), 0.0)
					duration := p.Timing.SliderDuration(start, length, slides)
					end = start + int(math.Floor(math.Max(0, duration)))
				}
			case isSpinner(typ):
				if fields >= 6 {
					end = parseInt(csvField(line, 5), start)
				}
			case isHold(typ):
				if fields >= 6 {
					end = holdEndTime(csvField(line, 5), start)
				}
			}

			// Back-to-back slider gap fill: the computed duration of the
			// previous slider can over- or undershoot due to rounding, so
			// its end is pulled up to at least this object's start.
			if haveObjects && isSlider(prevType) {
				if last := len(p.HitEnds) - 1; p.HitEnds[last] < start {
					p.HitEnds[last] = start
				}
			}

			if end < start {
				end = start
			}
			p.HitStarts = append(p.HitStarts, start)
			p.HitEnds = append(p.HitEnds, end)
			prevType = typ
			haveObjects = true
		}
	}

	normalizeMetadata(&p.Metadata)
	return p
}

// holdEndTime reads the end time of a mania hold note from its trailing
// "endTime:hitSample" field.
func holdEndTime(field string, def int) int {
	field = strings.TrimSpace(field)
	if i := strings.IndexByte(field, ':'); i >= 0 {
		field = field[:i]
	}
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return def
	}
	return v
}

// BeatmapSetURL turns a positive integer beatmapset id into its osu! website
// URL. Non-positive or non-numeric values pass through unchanged.
func BeatmapSetURL(id string) string {
	if n, err := strconv.Atoi(id); err == nil && n > 0 {
		return fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d", n)
	}
	return id
}

func normalizeMetadata(m *Metadata) {
	if m.Title == "" {
		m.Title = UnknownTitle
	}
	if m.Artist == "" {
		m.Artist = UnknownArtist
	}
	if m.Creator == "" {
		m.Creator = UnknownCreator
	}
	if m.Version == "" {
		m.Version = UnknownVersion
	}
	if m.BeatmapSetID == "" {
		m.BeatmapSetID = "Unknown"
	}
	if m.Mode < 0 || m.Mode > 3 {
		m.Mode = 0
	}
}

// HeaderCreatorVersion extracts only the Creator and Version fields from the
// [Metadata] section, stopping as soon as both are found. Scanning a file's
// first few kilobytes through this is enough to apply a mapper filter
// without a full parse.
func HeaderCreatorVersion(content string) (creator, version string) {
	sc := newLineScanner(content)
	for {
		line, ok := sc.next()
		if !ok {
			break
		}
		if sc.sec != secMetadata {
			// Metadata precedes the bulky sections; once we are past it
			// with both values in hand there is nothing left to find.
			if creator != "" && version != "" {
				break
			}
			continue
		}
		key, val, ok := splitKeyVal(line)
		if !ok {
			continue
		}
		switch key {
		case "creator":
			creator = val
		case "version":
			version = val
		}
		if creator != "" && version != "" {
			break
		}
	}
	return creator, version
}
