// Package store holds the in-memory card collection and the study-session
// history, both persisted through the blobstore on every mutation. It is
// the single source of truth for cards; the study and quiz engines read
// snapshots from it and write review results back through it.
package store
