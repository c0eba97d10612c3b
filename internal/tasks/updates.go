package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanDiscover Phase = iota
	ScanParse
	ScanPersist
	SyncCollect
	SyncUpload
	RefreshProbe
	RefreshPersist
)

func (p Phase) String() string {
	switch p {
	case ScanDiscover:
		return "scan_discover"
	case ScanParse:
		return "scan_parse"
	case ScanPersist:
		return "scan_persist"
	case SyncCollect:
		return "sync_collect"
	case SyncUpload:
		return "sync_upload"
	case RefreshProbe:
		return "refresh_probe"
	case RefreshPersist:
		return "refresh_persist"
	default:
		return ""
	}
}

func discoverUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanDiscover,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scanning %s for beatmaps...", dir),
	}
}

func parseBatchUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanParse,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Parsed %d of %d beatmaps...", step, total),
	}
}

func persistBatchUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanPersist,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Saved %d items...", count),
	}
}

func syncCollectUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncCollect,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Collected %d items for sync...", count),
	}
}

func syncUploadUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncUpload,
		Step:    1,
		Total:   1,
		Message: "Uploading library to embed endpoint...",
	}
}

func refreshProbeUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshProbe,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Probing audio for %s...", name),
	}
}

func refreshPersistUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshPersist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Updated %d of %d items...", step, total),
	}
}
