// Package tasks implements the long-running library operations.
//
// The core abstraction is [LibraryEngine], which orchestrates directory
// scans, embed syncs, and duration refreshes. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks
