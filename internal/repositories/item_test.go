package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testItem(path string) *models.Item {
	meta := models.ItemMetadata{
		Title:        "Test Song",
		Artist:       "Test Artist",
		Creator:      "testmapper",
		Version:      "Insane",
		BeatmapSetID: "https://osu.ppy.sh/beatmapsets/123456",
		Mode:         0,
		Audio:        "audio.mp3",
		PreviewTime:  -1,
	}
	return models.NewItem(path, 1700000000000.0, meta, 185000)
}

func TestItemRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		if item.ID() == "" {
			t.Error("item ID should be set after creation")
		}
		if item.Sequence() == 0 {
			t.Error("item sequence should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		retrieved, err := repo.Get(item.ID())
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}

		if retrieved.FilePath() != item.FilePath() {
			t.Errorf("expected path %s, got %s", item.FilePath(), retrieved.FilePath())
		}
		if retrieved.Metadata().Title != "Test Song" {
			t.Errorf("expected title Test Song, got %s", retrieved.Metadata().Title)
		}
		if retrieved.Highlights() != "[]" {
			t.Errorf("expected empty highlights, got %s", retrieved.Highlights())
		}
	})

	t.Run("GetByPath", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		retrieved, err := repo.GetByPath("/songs/a/test.osu")
		if err != nil {
			t.Fatalf("failed to get item by path: %v", err)
		}
		if retrieved.ID() != item.ID() {
			t.Errorf("expected ID %s, got %s", item.ID(), retrieved.ID())
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		if _, err := repo.Get("nonexistent"); !errors.Is(err, shared.ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		item.SetDone(true)
		item.SetTags("stream,tech")
		item.SetHighlights(`[[0.1,0.2,"o"]]`)
		scheduled := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		item.SetScheduledAt(&scheduled)

		if err := repo.Update(item); err != nil {
			t.Fatalf("failed to update item: %v", err)
		}

		retrieved, err := repo.Get(item.ID())
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if !retrieved.Done() {
			t.Error("expected done to persist")
		}
		if retrieved.Tags() != "stream,tech" {
			t.Errorf("expected tags to persist, got %s", retrieved.Tags())
		}
		if retrieved.Highlights() != `[[0.1,0.2,"o"]]` {
			t.Errorf("expected highlights to persist, got %s", retrieved.Highlights())
		}
		if retrieved.ScheduledAt() == nil {
			t.Error("expected scheduled date to persist")
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")
		item.SetID("nonexistent")

		if err := repo.Update(item); err == nil {
			t.Error("expected error updating missing item")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}
		if err := repo.Delete(item.ID()); err != nil {
			t.Fatalf("failed to delete item: %v", err)
		}

		if _, err := repo.Get(item.ID()); !errors.Is(err, shared.ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound after delete, got %v", err)
		}

		// Soft delete keeps the row
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM items WHERE id = ?", item.ID()).Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected soft-deleted row to remain, count = %d", count)
		}
	})

	t.Run("DeleteByPath", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/gone/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}
		if err := repo.DeleteByPath("/songs/gone/test.osu"); err != nil {
			t.Fatalf("failed to delete by path: %v", err)
		}

		if _, err := repo.GetByPath("/songs/gone/test.osu"); !errors.Is(err, shared.ErrItemNotFound) {
			t.Errorf("expected ErrItemNotFound after delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		first := testItem("/songs/a/test.osu")
		second := testItem("/songs/b/other.osu")
		second.SetDone(true)

		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first item: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create second item: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 items, got %d", len(all))
		}
		if all[0].Sequence() > all[1].Sequence() {
			t.Error("items should be ordered by sequence")
		}

		done, err := repo.List(map[string]any{"done": true})
		if err != nil {
			t.Fatalf("failed to list done items: %v", err)
		}
		if len(done) != 1 || done[0].ID() != second.ID() {
			t.Errorf("expected only the done item, got %d items", len(done))
		}
	})

	t.Run("ListByTag", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")
		item.SetTags("stream,tech")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		tagged, err := repo.List(map[string]any{"tag": "tech"})
		if err != nil {
			t.Fatalf("failed to list tagged items: %v", err)
		}
		if len(tagged) != 1 {
			t.Errorf("expected 1 tagged item, got %d", len(tagged))
		}

		none, err := repo.List(map[string]any{"tag": "jump"})
		if err != nil {
			t.Fatalf("failed to list tagged items: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no items, got %d", len(none))
		}
	})

	t.Run("KnownFiles", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := testItem("/songs/a/test.osu")

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		known, err := repo.KnownFiles()
		if err != nil {
			t.Fatalf("failed to load known files: %v", err)
		}
		if mtime, ok := known["/songs/a/test.osu"]; !ok || mtime != 1700000000000.0 {
			t.Errorf("known files = %v", known)
		}

		if err := repo.Delete(item.ID()); err != nil {
			t.Fatalf("failed to delete item: %v", err)
		}
		known, err = repo.KnownFiles()
		if err != nil {
			t.Fatalf("failed to load known files: %v", err)
		}
		if len(known) != 0 {
			t.Errorf("expected no known files after delete, got %v", known)
		}
	})

	t.Run("DuplicatePathRejected", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		if err := repo.Create(testItem("/songs/a/test.osu")); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}
		if err := repo.Create(testItem("/songs/a/test.osu")); err == nil {
			t.Error("expected unique constraint error for duplicate path")
		}
	})

	t.Run("RecreateAfterDelete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		first := testItem("/songs/a/test.osu")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}
		if err := repo.Delete(first.ID()); err != nil {
			t.Fatalf("failed to delete item: %v", err)
		}

		// Path uniqueness only covers live rows
		second := testItem("/songs/a/test.osu")
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to recreate item at same path: %v", err)
		}

		found, err := repo.GetByPath("/songs/a/test.osu")
		if err != nil {
			t.Fatalf("failed to fetch recreated item: %v", err)
		}
		if found.ID() != second.ID() {
			t.Errorf("expected recreated item %s, got %s", second.ID(), found.ID())
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "items")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "items")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("sequence did not increment: %d then %d", first, second)
	}
}
