// Package models defines domain entities and persistence interfaces for the beatmap library.
//
// The package contains two categories of types:
//
// 1. Value types derived from .osu files at scan time:
//   - [ItemMetadata] : Song and difficulty metadata with fallbacks applied
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Item] : One library entry per .osu file, carrying scan results, the
//     completion flag, tags, and the serialized highlight ranges
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
