package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fax1015/mosu-cli/internal/models"
	mock "github.com/fax1015/mosu-cli/internal/testing"
)

func formatterItems() []*models.Item {
	first := models.NewItem("/songs/a/a.osu", 1, models.ItemMetadata{
		Title:        "First Song",
		Artist:       "First Artist",
		Creator:      "mapperone",
		Version:      "Hard",
		BeatmapSetID: "https://osu.ppy.sh/beatmapsets/1",
	}, 125000)
	first.SetDone(true)
	first.SetTags("stream")

	second := models.NewItem("/songs/b/b.osu", 1, models.ItemMetadata{
		Title:        "Second Song",
		Artist:       "Second Artist",
		Creator:      "mappertwo",
		Version:      "Insane",
		BeatmapSetID: "Unknown",
	}, 95000)

	return []*models.Item{first, second}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(formatterItems())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to re-read CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "Title" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "First Song" || records[1][6] != "done" {
		t.Errorf("first row = %v", records[1])
	}
	if records[2][6] != "todo" {
		t.Errorf("second row = %v", records[2])
	}
	if records[1][5] != "2:05" {
		t.Errorf("duration = %q, want 2:05", records[1][5])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(formatterItems(), "My Library")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "# My Library\n") {
		t.Errorf("missing title heading:\n%s", out)
	}
	if !strings.Contains(out, "- [x] First Artist - First Song [Hard]") {
		t.Errorf("missing done entry:\n%s", out)
	}
	if !strings.Contains(out, "- [ ] Second Artist - Second Song [Insane]") {
		t.Errorf("missing todo entry:\n%s", out)
	}
	if !strings.Contains(out, "<https://osu.ppy.sh/beatmapsets/1>") {
		t.Errorf("missing beatmapset link:\n%s", out)
	}
	if strings.Contains(out, "Unknown") {
		t.Errorf("unknown set should not be linked:\n%s", out)
	}
	if !strings.Contains(out, "Tags: stream") {
		t.Errorf("missing tags:\n%s", out)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(formatterItems())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Maps: 2") {
		t.Errorf("missing count:\n%s", out)
	}
	if !strings.Contains(out, "1. [done] First Artist - First Song [Hard]") {
		t.Errorf("missing first entry:\n%s", out)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("appends extension", func(t *testing.T) {
		dir := t.TempDir()
		result, err := WriteExport(formatterItems(), "csv", filepath.Join(dir, "library"))
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}

		if filepath.Ext(result.File) != ".csv" {
			t.Errorf("file = %s", result.File)
		}
		mock.AssertFileExists(t, result.File)
	})

	t.Run("markdown alias", func(t *testing.T) {
		dir := t.TempDir()
		result, err := WriteExport(formatterItems(), "md", filepath.Join(dir, "library.md"))
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		content := mock.MustReadFile(t, result.File)
		if !strings.HasPrefix(content, "# Beatmap Library") {
			t.Errorf("content = %q", content[:40])
		}
	})

	t.Run("creates parent directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "exports", "weekly")
		result, err := WriteExport(formatterItems(), "text", filepath.Join(dir, "library"))
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		mock.AssertDirExists(t, dir)
		mock.AssertFileExists(t, result.File)
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := WriteExport(nil, "yaml", "out"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
