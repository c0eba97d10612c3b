// Package repositories provides the persistence layer for library items.
//
// [ItemRepository] implements models.Repository[*models.Item], handling CRUD
// operations, soft deletes, sequence generation, and the scan-time mtime
// cache lookup.
package repositories
