// Package kvstore provides the metadata store abstraction: a flat key-value
// namespace with exact-key get/put and ordered prefix scans. Composite keys
// (domain prefix + ":" + identifier segments) are the only indexing
// mechanism available to callers; every query must be designed as a prefix
// scan over a key the caller controls.
package kvstore

import "context"

// Item is a single key-value pair returned by a prefix scan.
type Item struct {
	Key   string
	Value []byte
}

// Store is the metadata store contract.
//
// Put overwrites any existing value at key. Get returns the most recently
// written value or common.ErrorNotFound if the key was never written or was
// deleted. ScanPrefix returns every item whose key starts with prefix,
// ordered by key in ascending lexicographic byte order; a write that
// completes before a scan starts is visible in that scan.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	ScanPrefix(ctx context.Context, prefix string) ([]Item, error)
	Delete(ctx context.Context, key string) error
}
