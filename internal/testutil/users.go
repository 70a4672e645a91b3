// Package testutil holds in-memory stand-ins for the Postgres repositories.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/catalog-api/internal/domain"
)

// UserStore is an in-memory repository.UserRepository. It enforces the same
// unique email and username rules as the users table.
type UserStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User

	// InsertHook runs before each insert; a non-nil error aborts it.
	InsertHook func(user *domain.User) error
	// Err, when set, is returned by every call.
	Err error
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[int64]domain.User)}
}

func (s *UserStore) Insert(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.InsertHook != nil {
		if err := s.InsertHook(user); err != nil {
			return err
		}
	}
	for _, existing := range s.byID {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	s.nextID++
	now := time.Now().UTC()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.byID[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.ID == id })
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Email == email })
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username })
}

// Delete removes a user, as an administrator would.
func (s *UserStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// SetRole changes a stored role in place.
func (s *UserStore) SetRole(id int64, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.Role = role
		s.byID[id] = u
	}
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *UserStore) find(match func(domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.byID {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
