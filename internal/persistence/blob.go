package persistence

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Load when nothing has been saved under a key yet.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore keeps whole serialized collections under a key. Every Save replaces the
// previous payload in full.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
	Name() string
}
