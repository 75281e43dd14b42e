// Package store holds the current image map behind a read/write lock and
// replaces it when the raw source text changes.
package store
