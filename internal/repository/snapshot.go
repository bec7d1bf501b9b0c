package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spec-kit/park-booking/internal/persistence"
)

// loadSnapshot decodes the collection stored under key into dst. It reports false when
// nothing has been stored yet.
func loadSnapshot(ctx context.Context, blobs persistence.BlobStore, key string, dst any) (bool, error) {
	data, err := blobs.Load(ctx, key)
	if errors.Is(err, persistence.ErrBlobNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// saveSnapshot encodes the entire collection and replaces the stored copy.
func saveSnapshot(ctx context.Context, blobs persistence.BlobStore, key string, src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return blobs.Save(ctx, key, data)
}
