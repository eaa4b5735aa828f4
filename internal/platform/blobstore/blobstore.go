// Package blobstore provides the key-value blob persistence used by the
// card and session stores. Values are opaque strings; each key is written
// atomically and independently of the others.
package blobstore

// Store is the minimal contract the stores persist through: synchronous
// get/set over string blobs. Get reports absence via its second return
// value rather than an error.
type Store interface {
	// Get returns the value stored under key, or ok=false when the key has
	// never been written.
	Get(key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(key, value string) error
}
