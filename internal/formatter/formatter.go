// package formatter provides functions to export library data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/shared"
)

// ExportToCSV converts library items to CSV format with columns:
// Title, Artist, Creator, Version, Mode, Duration, Status, Tags, BeatmapSet
func ExportToCSV(items []*models.Item) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Creator", "Version", "Mode", "Duration", "Status", "Tags", "BeatmapSet"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		meta := item.Metadata()
		record := []string{
			meta.Title,
			meta.Artist,
			meta.Creator,
			meta.Version,
			strconv.Itoa(meta.Mode),
			shared.FormatDuration(item.DurationMS()),
			shared.StatusString(item.Done()),
			item.Tags(),
			meta.BeatmapSetID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts library items to a Markdown checklist grouped
// under a single heading
func ExportToMarkdown(items []*models.Item, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Beatmap Library"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Maps**: %d\n\n", len(items)))

	for _, item := range items {
		meta := item.Metadata()
		check := " "
		if item.Done() {
			check = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s [%s]\n", check, item.DisplayName(), shared.FormatDuration(item.DurationMS())))
		if meta.BeatmapSetID != "" && meta.BeatmapSetID != "Unknown" {
			buf.WriteString(fmt.Sprintf("  - <%s>\n", meta.BeatmapSetID))
		}
		if item.Tags() != "" {
			buf.WriteString(fmt.Sprintf("  - Tags: %s\n", item.Tags()))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts library items to plain text format
func ExportToText(items []*models.Item) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Maps: %d\n\n", len(items)))
	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, shared.StatusString(item.Done()), item.DisplayName()))
	}

	return buf.Bytes(), nil
}

// ExportResult contains the path of the file created by WriteExport
type ExportResult struct {
	File string
}

// WriteExport exports items to the given format ("csv", "markdown", "text"),
// writing to path. The extension is appended when path has none.
func WriteExport(items []*models.Item, format, path string) (*ExportResult, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "csv":
		data, err = ExportToCSV(items)
		ext = ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(items, "")
		ext = ".md"
	case "text", "txt":
		data, err = ExportToText(items)
		ext = ".txt"
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == "" {
		path += ext
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &ExportResult{File: path}, nil
}
