// Package storage provides durable keyed storage for the flat JSON documents
// the application treats as its database. Call sites talk to the Store
// interface so the backing implementation (whole-file JSON rewrite, sqlite)
// can be swapped without touching them.
package storage

import "errors"

// Bucket names used by the services.
const (
	BucketUsers   = "users"
	BucketReports = "reports"
	BucketEvents  = "events"
)

var (
	// ErrKeyNotFound is returned when the bucket exists but has no entry
	// for the requested key.
	ErrKeyNotFound = errors.New("storage: key not found")

	// ErrStoreMissing is returned when the backing document for a bucket
	// does not exist at all.
	ErrStoreMissing = errors.New("storage: store missing")
)

// Store is a minimal keyed document store. Values are marshalled to and from
// JSON by the implementation.
type Store interface {
	// Get unmarshals the value stored under bucket/key into out.
	Get(bucket, key string, out any) error
	// Put stores the JSON encoding of in under bucket/key, creating the
	// bucket if needed.
	Put(bucket, key string, in any) error
	// Delete removes the entry for bucket/key. Deleting an absent key is
	// not an error; deleting from a missing store is.
	Delete(bucket, key string) error
	// Close releases any resources held by the store.
	Close() error
}
