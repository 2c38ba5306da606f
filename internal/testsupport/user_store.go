// Package testsupport holds in-memory collaborators shared by package tests.
package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
)

// UserStore is a mutex-guarded in-memory services.UserStore.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User

	// Err, when set, is returned by every method.
	Err error

	SaveCalls        int
	UpdateFieldCalls int
}

var _ services.UserStore = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("%w: duplicate user %q", services.ErrConflict, user.Username)
		}
	}
	s.users[user.ID] = clone(*user)
	return nil
}

func (s *UserStore) FindByIdentifier(_ context.Context, username, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			out := clone(u)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := clone(u)
	return &out, nil
}

func (s *UserStore) FindSanitizedByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	sanitized := u.Sanitized()
	return &sanitized, nil
}

func (s *UserStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Save(_ context.Context, user *models.User, opts services.SaveOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.Err != nil {
		return s.Err
	}
	if opts.Validate {
		if err := user.Validate(); err != nil {
			return err
		}
	}
	next := clone(*user)
	if prev, ok := s.users[user.ID]; ok {
		next.RefreshToken = prev.RefreshToken
	}
	s.users[user.ID] = next
	return nil
}

func (s *UserStore) UpdateField(_ context.Context, id uuid.UUID, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateFieldCalls++
	if s.Err != nil {
		return s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	switch field {
	case "refresh_token":
		if value == nil {
			u.RefreshToken = nil
		} else {
			token := value.(string)
			u.RefreshToken = &token
		}
	case "password":
		u.Password = value.(string)
	case "full_name":
		u.FullName = value.(string)
	case "email":
		u.Email = value.(string)
	case "avatar":
		u.Avatar = value.(string)
	case "cover_image":
		u.CoverImage = value.(string)
	default:
		return fmt.Errorf("field %q is not updatable", field)
	}
	s.users[id] = u
	return nil
}

func (s *UserStore) SwapRefreshToken(_ context.Context, id uuid.UUID, current, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	u, ok := s.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = &next
	s.users[id] = u
	return true, nil
}

// StoredRefreshToken returns the raw refresh-token slot for assertions.
func (s *UserStore) StoredRefreshToken(id uuid.UUID) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.RefreshToken == nil {
		return nil
	}
	token := *u.RefreshToken
	return &token
}

// Delete removes a user, as an out-of-band account deletion would.
func (s *UserStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func clone(u models.User) models.User {
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		u.RefreshToken = &token
	}
	return u
}
