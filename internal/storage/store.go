// Package storage provides the per-user blob store backing plan
// persistence. The interface keeps the backing mechanism swappable; the
// only implementation here is one JSON file per user.
package storage

import "errors"

var (
	// ErrNotFound means no blob has ever been stored under the key.
	ErrNotFound = errors.New("blob not found")
	// ErrWriteFailed wraps underlying write failures (disk full,
	// permissions, and so on).
	ErrWriteFailed = errors.New("blob write failed")
)

// BlobStore stores one opaque blob per key. Concurrent Put calls for the
// same key are not serialized: last write wins.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Exists(key string) bool
}
