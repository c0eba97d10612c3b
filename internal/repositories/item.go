package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/shared"
)

const itemColumns = `id, sequence, file_path, mtime_ms, title, title_unicode, artist, artist_unicode,
		creator, version, mode, audio, background, beatmapset_id, preview_time,
		duration_ms, done, tags, scheduled_at, highlights, created_at, updated_at, deleted_at`

// ItemRepository implements models.Repository[*models.Item] for library entries.
//
// Items are keyed by file path for the scanner's upsert flow and by ID for
// everything else. Soft-deleted items are excluded from all lookups.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository with the given database connection
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new [models.Item] into the database with generated ID and sequence
func (r *ItemRepository) Create(item *models.Item) error {
	sequence, err := NextSequence(r.db, "items")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	item.SetID(id)
	item.SetSequence(sequence)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	meta := item.Metadata()
	query := `
		INSERT INTO items (id, sequence, file_path, mtime_ms, title, title_unicode, artist, artist_unicode,
			creator, version, mode, audio, background, beatmapset_id, preview_time,
			duration_ms, done, tags, scheduled_at, highlights, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		item.FilePath(),
		item.MtimeMS(),
		meta.Title,
		meta.TitleUnicode,
		meta.Artist,
		meta.ArtistUnicode,
		meta.Creator,
		meta.Version,
		meta.Mode,
		meta.Audio,
		meta.Background,
		meta.BeatmapSetID,
		meta.PreviewTime,
		item.DurationMS(),
		item.Done(),
		item.Tags(),
		item.ScheduledAt(),
		item.Highlights(),
		item.CreatedAt(),
		item.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// Get retrieves an item by ID, excluding soft-deleted items
func (r *ItemRepository) Get(id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPath retrieves an item by its .osu file path
func (r *ItemRepository) GetByPath(filePath string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE file_path = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, filePath))
}

// Update modifies an existing item in the database
func (r *ItemRepository) Update(item *models.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	item.SetUpdatedAt(now)

	meta := item.Metadata()
	query := `
		UPDATE items
		SET mtime_ms = ?, title = ?, title_unicode = ?, artist = ?, artist_unicode = ?,
			creator = ?, version = ?, mode = ?, audio = ?, background = ?, beatmapset_id = ?,
			preview_time = ?, duration_ms = ?, done = ?, tags = ?, scheduled_at = ?,
			highlights = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		item.MtimeMS(),
		meta.Title,
		meta.TitleUnicode,
		meta.Artist,
		meta.ArtistUnicode,
		meta.Creator,
		meta.Version,
		meta.Mode,
		meta.Audio,
		meta.Background,
		meta.BeatmapSetID,
		meta.PreviewTime,
		item.DurationMS(),
		item.Done(),
		item.Tags(),
		item.ScheduledAt(),
		item.Highlights(),
		now,
		item.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item not found or already deleted: %s", item.ID())
	}

	return nil
}

// Delete soft-deletes an item by ID
func (r *ItemRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE items
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item not found or already deleted: %s", id)
	}

	return nil
}

// DeleteByPath soft-deletes an item by file path, used when a scan notices a
// file has disappeared from disk
func (r *ItemRepository) DeleteByPath(filePath string) error {
	query := `
		UPDATE items
		SET deleted_at = ?
		WHERE file_path = ? AND deleted_at IS NULL
	`

	if _, err := r.db.Exec(query, time.Now(), filePath); err != nil {
		return fmt.Errorf("failed to delete item by path: %w", err)
	}
	return nil
}

// List retrieves all items matching the given criteria, excluding soft-deleted items
//
// Supported criteria: "done" (bool), "creator" (string, LIKE match),
// "tag" (string, LIKE match against the tags column).
func (r *ItemRepository) List(criteria map[string]any) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if done, ok := criteria["done"].(bool); ok {
		query += " AND done = ?"
		args = append(args, done)
	}

	if creator, ok := criteria["creator"].(string); ok && creator != "" {
		query += " AND LOWER(creator) LIKE ?"
		args = append(args, "%"+creator+"%")
	}

	if tag, ok := criteria["tag"].(string); ok && tag != "" {
		query += " AND LOWER(tags) LIKE ?"
		args = append(args, "%"+tag+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// KnownFiles returns file path -> mtime for every live item. The scanner
// uses it to skip files whose mtime has not changed since the last scan.
func (r *ItemRepository) KnownFiles() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT file_path, mtime_ms FROM items WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query known files: %w", err)
	}
	defer rows.Close()

	known := make(map[string]float64)
	for rows.Next() {
		var path string
		var mtime float64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, fmt.Errorf("failed to scan known file: %w", err)
		}
		known[path] = mtime
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return known, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOne scans a single [sql.Row] into a [models.Item]
func (r *ItemRepository) scanOne(row *sql.Row) (*models.Item, error) {
	item, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrItemNotFound
	}
	return item, err
}

// scanRow scans a row from [sql.Rows] into a [models.Item]
func (r *ItemRepository) scanRow(rows *sql.Rows) (*models.Item, error) {
	return r.scan(rows)
}

func (r *ItemRepository) scan(row rowScanner) (*models.Item, error) {
	var (
		id            string
		sequence      int
		filePath      string
		mtimeMS       float64
		title         string
		titleUnicode  string
		artist        string
		artistUnicode string
		creator       string
		version       string
		mode          int
		audio         string
		background    string
		beatmapsetID  string
		previewTime   int
		durationMS    int
		done          bool
		tags          string
		scheduledAt   sql.NullTime
		highlights    string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &filePath, &mtimeMS, &title, &titleUnicode, &artist, &artistUnicode,
		&creator, &version, &mode, &audio, &background, &beatmapsetID, &previewTime,
		&durationMS, &done, &tags, &scheduledAt, &highlights, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	meta := models.ItemMetadata{
		Title:         title,
		TitleUnicode:  titleUnicode,
		Artist:        artist,
		ArtistUnicode: artistUnicode,
		Creator:       creator,
		Version:       version,
		BeatmapSetID:  beatmapsetID,
		Mode:          mode,
		Audio:         audio,
		Background:    background,
		PreviewTime:   previewTime,
	}

	item := models.NewItem(filePath, mtimeMS, meta, durationMS)
	item.SetID(id)
	item.SetSequence(sequence)
	item.SetHighlights(highlights)
	item.SetDone(done)
	item.SetTags(tags)
	if scheduledAt.Valid {
		item.SetScheduledAt(&scheduledAt.Time)
	}
	item.SetCreatedAt(createdAt)
	item.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		item.SetDeletedAt(&deletedAt.Time)
	}

	return item, nil
}
