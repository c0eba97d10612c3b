package beatmap

import (
	"strconv"
	"strings"
)

// section identifies which [Name] block the scanner is currently inside.
type section int

const (
	secNone section = iota
	secGeneral
	secEditor
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secColours
	secHitObjects
	secOther
)

func sectionFromHeader(header string) section {
	switch strings.ToLower(header) {
	case "general":
		return secGeneral
	case "editor":
		return secEditor
	case "metadata":
		return secMetadata
	case "difficulty":
		return secDifficulty
	case "events":
		return secEvents
	case "timingpoints":
		return secTimingPoints
	case "colours", "colors":
		return secColours
	case "hitobjects":
		return secHitObjects
	default:
		return secOther
	}
}

// lineScanner walks the raw file text line by line, tracking the current
// section and skipping blanks and // comments. It allocates nothing beyond
// the slices strings.Split-free indexing hands out.
type lineScanner struct {
	content string
	pos     int
	sec     section
}

func newLineScanner(content string) *lineScanner {
	return &lineScanner{content: content}
}

// next returns the next meaningful trimmed line and whether one was found.
// Section header lines are consumed internally and update sec.
func (s *lineScanner) next() (string, bool) {
	for s.pos < len(s.content) {
		end := strings.IndexByte(s.content[s.pos:], '\n')
		var line string
		if end < 0 {
			line = s.content[s.pos:]
			s.pos = len(s.content)
		} else {
			line = s.content[s.pos : s.pos+end]
			s.pos += end + 1
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			s.sec = sectionFromHeader(line[1 : len(line)-1])
			continue
		}
		return line, true
	}
	return "", false
}

// splitKeyVal splits a "Key: Value" line, trimming both sides.
// The key comes back lower-cased so callers can switch on it directly.
func splitKeyVal(line string) (key, val string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(line[:i])), strings.TrimSpace(line[i+1:]), true
}

// csvField returns the nth comma-separated field of line without splitting
// the whole line. Returns "" when there aren't enough fields.
func csvField(line string, n int) string {
	start := 0
	for ; n > 0; n-- {
		i := strings.IndexByte(line[start:], ',')
		if i < 0 {
			return ""
		}
		start += i + 1
	}
	if i := strings.IndexByte(line[start:], ','); i >= 0 {
		return line[start : start+i]
	}
	return line[start:]
}

// csvFieldCount counts comma-separated fields.
func csvFieldCount(line string) int {
	if line == "" {
		return 0
	}
	return strings.Count(line, ",") + 1
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// isImageFilename reports whether s ends in a known image extension.
func isImageFilename(s string) bool {
	for _, ext := range imageExtensions {
		if len(s) >= len(ext) && strings.EqualFold(s[len(s)-len(ext):], ext) {
			return true
		}
	}
	return false
}

func trimQuotes(s string) string {
	return strings.Trim(s, "\"")
}
