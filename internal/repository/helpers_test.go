package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/spec-kit/park-booking/internal/persistence"
)

// plainHasher keeps tests fast; production wires bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if strings.TrimPrefix(hash, "plain:") != password {
		return errors.New("mismatch")
	}
	return nil
}

var errSaveFailed = errors.New("disk full")

// flakyBlobStore wraps a real store and fails saves while failSaves is set.
type flakyBlobStore struct {
	persistence.BlobStore
	mu        sync.Mutex
	failSaves bool
	saves     int
}

func (s *flakyBlobStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return errSaveFailed
	}
	s.saves++
	return s.BlobStore.Save(ctx, key, data)
}

func (s *flakyBlobStore) setFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves = fail
}
