package models

import (
	"fmt"
	"time"
)

// ItemMetadata is the per-file metadata captured at scan time, mirroring a
// parsed .osu header with fallbacks already applied.
type ItemMetadata struct {
	Title         string
	TitleUnicode  string
	Artist        string
	ArtistUnicode string
	Creator       string
	Version       string
	BeatmapSetID  string
	Mode          int
	Audio         string
	Background    string
	PreviewTime   int
}

// Item is one library entry per .osu file.
//
// Scan fields (path, mtime, metadata, duration, highlights) are owned by the
// scanner and overwritten on re-scan; user fields (done, tags, scheduled
// date) survive re-scans.
type Item struct {
	id       string
	sequence int

	filePath string
	mtimeMS  float64

	meta       ItemMetadata
	durationMS int
	highlights string

	done        bool
	tags        string
	scheduledAt *time.Time

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewItem creates an Item from scan results. Highlights defaults to the
// empty JSON array until ranges are computed.
func NewItem(filePath string, mtimeMS float64, meta ItemMetadata, durationMS int) *Item {
	now := time.Now()
	return &Item{
		filePath:   filePath,
		mtimeMS:    mtimeMS,
		meta:       meta,
		durationMS: durationMS,
		highlights: "[]",
		createdAt:  now,
		updatedAt:  now,
	}
}

func (i *Item) ID() string            { return i.id }
func (i *Item) Sequence() int         { return i.sequence }
func (i *Item) FilePath() string      { return i.filePath }
func (i *Item) MtimeMS() float64      { return i.mtimeMS }
func (i *Item) Metadata() ItemMetadata { return i.meta }
func (i *Item) DurationMS() int       { return i.durationMS }
func (i *Item) Highlights() string    { return i.highlights }
func (i *Item) Done() bool            { return i.done }
func (i *Item) Tags() string          { return i.tags }
func (i *Item) ScheduledAt() *time.Time { return i.scheduledAt }
func (i *Item) CreatedAt() time.Time  { return i.createdAt }
func (i *Item) UpdatedAt() time.Time  { return i.updatedAt }
func (i *Item) DeletedAt() *time.Time { return i.deletedAt }

func (i *Item) SetID(id string)             { i.id = id }
func (i *Item) SetSequence(sequence int)    { i.sequence = sequence }
func (i *Item) SetMtimeMS(mtime float64)    { i.mtimeMS = mtime }
func (i *Item) SetMetadata(m ItemMetadata)  { i.meta = m }
func (i *Item) SetDurationMS(d int)         { i.durationMS = d }
func (i *Item) SetHighlights(h string)      { i.highlights = h }
func (i *Item) SetDone(done bool)           { i.done = done }
func (i *Item) SetTags(tags string)         { i.tags = tags }
func (i *Item) SetScheduledAt(t *time.Time) { i.scheduledAt = t }
func (i *Item) SetCreatedAt(t time.Time)    { i.createdAt = t }
func (i *Item) SetUpdatedAt(t time.Time)    { i.updatedAt = t }
func (i *Item) SetDeletedAt(t *time.Time)   { i.deletedAt = t }

// Validate checks required fields before persistence
func (i *Item) Validate() error {
	if i.filePath == "" {
		return fmt.Errorf("item file path is required")
	}
	if i.meta.Title == "" {
		return fmt.Errorf("item title is required")
	}
	if i.meta.Mode < 0 || i.meta.Mode > 3 {
		return fmt.Errorf("item mode out of range: %d", i.meta.Mode)
	}
	if i.durationMS < 0 {
		return fmt.Errorf("item duration must be non-negative: %d", i.durationMS)
	}
	return nil
}

// DisplayName renders "Artist - Title [Version]" for lists and exports.
func (i *Item) DisplayName() string {
	return fmt.Sprintf("%s - %s [%s]", i.meta.Artist, i.meta.Title, i.meta.Version)
}
