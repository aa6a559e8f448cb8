package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type UserStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*models.User)}
}

func (s *UserStore) Create(ctx context.Context, username, password string) (int64, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[username]; ok {
		u.Password = string(hashed)
		return u.ID, nil
	}
	s.nextID++
	s.users[username] = &models.User{ID: s.nextID, Username: username, Password: string(hashed)}
	return s.nextID, nil
}

func (s *UserStore) Find(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, nil
	}
	return &models.User{ID: u.ID, Username: u.Username}, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return &models.User{ID: u.ID, Username: u.Username}, nil
}

func (s *UserStore) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; !ok {
		return errors.New("no user found to delete")
	}
	delete(s.users, username)
	return nil
}

var _ store.UserStore = (*UserStore)(nil)
