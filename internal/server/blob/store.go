// Package blob abstracts the object storage holding uploaded spreadsheet
// bytes. Metadata never lives here; the metadata store references blobs by
// their storage path.
package blob

import "context"

// Store is the blob storage contract. Get returns common.ErrorNotFound for
// an absent key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
