package storage

import "io"

// BlobStore holds uploaded lesson materials.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Remove(key string) error
}
