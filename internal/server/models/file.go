// Package models defines the records persisted in the metadata store.
package models

import "time"

// FileRecord is the canonical metadata for an uploaded spreadsheet. The
// bytes themselves live in object storage under StoragePath; the record is
// immutable after creation. It is stored under the canonical key
// "file:<id>" and projected into the per-owner index under
// "user_files:<userId>:<id>".
type FileRecord struct {
	// ID is an opaque, owner-unguessable identifier (random UUID).
	ID string `json:"id"`
	// UserID is the single owner of the file.
	UserID string `json:"userId"`
	// FileName is the display name shown to the owner.
	FileName string `json:"fileName"`
	// OriginalName is the name the file was uploaded with.
	OriginalName string `json:"originalName"`
	// StoragePath is the object-storage key of the uploaded bytes.
	StoragePath string `json:"storagePath"`
	// UploadedAt is the upload completion timestamp.
	UploadedAt time.Time `json:"uploadedAt"`
	// Size is the payload size in bytes.
	Size int64 `json:"size"`
	// Type is the declared content type.
	Type string `json:"type"`
}
