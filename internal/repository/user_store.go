package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/park-booking/internal/domain"
	"github.com/spec-kit/park-booking/internal/persistence"
)

// PasswordHasher turns passwords into stored hashes and checks them back.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RegisterParams carries the fields of a new account.
type RegisterParams struct {
	Username    string
	Password    string
	Email       string
	PhoneNumber string
	DateOfBirth string
}

// DetailsUpdate lists the mutable account fields. Nil or empty fields are left unchanged.
type DetailsUpdate struct {
	Email       *string
	PhoneNumber *string
	DateOfBirth *string
}

// UserStore owns the user table and rewrites it in full after every mutation.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	blobs  persistence.BlobStore
	key    string
	hasher PasswordHasher
}

// NewUserStore loads the user table stored under key, starting empty when there is none.
func NewUserStore(ctx context.Context, blobs persistence.BlobStore, key string, hasher PasswordHasher, logger *zap.Logger) (*UserStore, error) {
	users := make(map[string]*domain.User)
	found, err := loadSnapshot(ctx, blobs, key, &users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if users == nil {
		users = make(map[string]*domain.User)
	}

	logger.Info("users loaded",
		zap.String("backend", blobs.Name()),
		zap.String("key", key),
		zap.Bool("existing", found),
		zap.Int("count", len(users)))

	return &UserStore{users: users, blobs: blobs, key: key, hasher: hasher}, nil
}

// Register inserts a new user. Usernames are unique and case-sensitive.
func (s *UserStore) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[params.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:        params.Username,
		PasswordHash:    hash,
		Email:           params.Email,
		PhoneNumber:     params.PhoneNumber,
		DateOfBirth:     params.DateOfBirth,
		PurchaseHistory: []string{},
	}
	s.users[user.Username] = user
	if err := s.persist(ctx); err != nil {
		delete(s.users, user.Username)
		return nil, err
	}
	return user.Clone(), nil
}

// Authenticate returns the user only when username and password both match.
func (s *UserStore) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user.Clone(), nil
}

// Get returns a copy of the named user.
func (s *UserStore) Get(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user.Clone(), nil
}

// Exists reports whether username is registered.
func (s *UserStore) Exists(_ context.Context, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok
}

// Usernames lists registered usernames in sorted order.
func (s *UserStore) Usernames(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// UpdateDetails overwrites only the supplied fields.
func (s *UserStore) UpdateDetails(ctx context.Context, username string, update DetailsUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	prev := user.Clone()
	if v := update.Email; v != nil && *v != "" {
		user.Email = *v
	}
	if v := update.PhoneNumber; v != nil && *v != "" {
		user.PhoneNumber = *v
	}
	if v := update.DateOfBirth; v != nil && *v != "" {
		user.DateOfBirth = *v
	}

	if err := s.persist(ctx); err != nil {
		s.users[username] = prev
		return nil, err
	}
	return user.Clone(), nil
}

// AppendPurchase adds a record to the end of the user's purchase history.
func (s *UserStore) AppendPurchase(ctx context.Context, username, record string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}

	n := len(user.PurchaseHistory)
	user.PurchaseHistory = append(user.PurchaseHistory, record)
	if err := s.persist(ctx); err != nil {
		user.PurchaseHistory = user.PurchaseHistory[:n]
		return err
	}
	return nil
}

// Delete removes the user.
func (s *UserStore) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}

	delete(s.users, username)
	if err := s.persist(ctx); err != nil {
		s.users[username] = user
		return err
	}
	return nil
}

// persist must be called with mu held.
func (s *UserStore) persist(ctx context.Context) error {
	if err := saveSnapshot(ctx, s.blobs, s.key, s.users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
