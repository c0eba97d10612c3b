// Package beatmap parses .osu beatmap files into normalized metadata, timing
// information, hit-object spans, and highlight ranges.
//
// The format is line-oriented and section-delimited ([Metadata], [General],
// [TimingPoints], [HitObjects], ...). Files in the wild drift from the spec,
// so every parser here is permissive: malformed lines are skipped, missing
// values fall back to documented defaults, and no function returns an error.
// A completely empty input yields a default-filled [Parsed] with empty slices.
//
// Two independent passes are provided:
//
//   - [Parse] produces the compact model used for library items: metadata,
//     index-aligned hit start/end spans, break periods, and bookmarks.
//   - [ParsePreview] produces full per-object geometry (positions, slider
//     paths, combo flags) plus global difficulty settings for rendering.
//
// Both are pure functions of their input string and safe for concurrent use.
package beatmap
