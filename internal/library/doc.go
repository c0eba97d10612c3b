// Package library discovers and parses .osu files under a songs directory.
//
// [Scanner] walks the directory tree, skips files whose mtime matches the
// previous scan, applies the optional mapper filter using a cheap header-only
// read, and parses the survivors concurrently into [models.Item] batches.
package library
