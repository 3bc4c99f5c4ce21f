package handler_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/repository"
)

// fakeStore is an in-memory repository.UserStore used by the handler tests.
// It enforces the same uniqueness guarantees the MySQL indexes provide.
type fakeStore struct {
	mu     sync.Mutex
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uint64]*model.User), nextID: 1}
}

var _ repository.UserStore = (*fakeStore)(nil)

func (s *fakeStore) Create(ctx context.Context, u *model.User) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == email {
			return 0, repository.ErrEmailExists
		}
		if existing.Username == u.Username {
			return 0, repository.ErrUsernameExists
		}
	}
	cp := *u
	cp.ID = s.nextID
	cp.Email = email
	cp.CreatedAt = time.Now().UTC()
	s.nextID++
	s.users[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool {
		return u.Email == strings.ToLower(strings.TrimSpace(email))
	})
}

func (s *fakeStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool { return u.Username == username })
}

func (s *fakeStore) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	lower := strings.ToLower(identifier)
	return s.findBy(func(u *model.User) bool {
		return u.Email == lower || u.Username == identifier
	})
}

func (s *fakeStore) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	u.PasswordHash = hash
	u.UpdatedAt = &now
	return nil
}

func (s *fakeStore) Update(ctx context.Context, in *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[in.ID]
	if !ok {
		return repository.ErrNotFound
	}
	email := strings.ToLower(in.Email)
	for id, other := range s.users {
		if id == in.ID {
			continue
		}
		if other.Email == email {
			return repository.ErrEmailExists
		}
		if other.Username == in.Username {
			return repository.ErrUsernameExists
		}
	}
	now := time.Now().UTC()
	u.Email = email
	u.Username = in.Username
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.IsActive = in.IsActive
	u.IsAdmin = in.IsAdmin
	u.UpdatedAt = &now
	return nil
}

func (s *fakeStore) Deactivate(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	u.IsActive = false
	u.UpdatedAt = &now
	return nil
}

func (s *fakeStore) List(ctx context.Context, offset, limit int, activeOnly bool) ([]model.User, error) {
	all := s.snapshot(func(u *model.User) bool { return !activeOnly || u.IsActive })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeStore) Count(ctx context.Context, activeOnly bool) (int, error) {
	return len(s.snapshot(func(u *model.User) bool { return !activeOnly || u.IsActive })), nil
}

func (s *fakeStore) Search(ctx context.Context, q string, offset, limit int) ([]model.User, error) {
	q = strings.ToLower(q)
	all := s.snapshot(func(u *model.User) bool {
		if !u.IsActive {
			return false
		}
		hay := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email + " " + u.Username)
		return strings.Contains(hay, q)
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeStore) findBy(match func(*model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) snapshot(match func(*model.User) bool) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		if match(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
