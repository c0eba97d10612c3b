// Package audio resolves track durations from beatmap audio files.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/fax1015/mosu-cli/internal/shared"
)

// bytesPerSample is go-mp3's fixed output format: 16-bit stereo PCM.
const bytesPerSample = 4

// ProbeDuration returns the duration of an mp3 file in milliseconds.
//
// go-mp3 decodes everything to 16-bit stereo, so the decoded byte length
// divided by four gives the sample count regardless of source channels.
// Non-mp3 audio (ogg, wav) is reported as [shared.ErrProbeFailed]; callers
// fall back to the beatmap's own object timeline.
func ProbeDuration(path string) (int, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".mp3" {
		return 0, fmt.Errorf("%w: unsupported audio format %s", shared.ErrProbeFailed, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrFileNotFound, err)
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrProbeFailed, err)
	}

	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		return 0, fmt.Errorf("%w: invalid sample rate", shared.ErrProbeFailed)
	}

	samples := decoder.Length() / bytesPerSample
	if samples <= 0 {
		return 0, fmt.Errorf("%w: empty audio stream", shared.ErrProbeFailed)
	}

	return int(samples * 1000 / int64(sampleRate)), nil
}
