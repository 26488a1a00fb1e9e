package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
)

// UserStore is an in-process users + user_roles store with the same
// constraint behavior as the Postgres repositories.
type UserStore struct {
	mu     sync.Mutex
	users  map[int64]entity.User
	roles  map[int64]entity.Role
	nextID int64
	nextRl int64

	// Fail, when set, is returned by every operation.
	Fail error
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[int64]entity.User{}, roles: map[int64]entity.Role{}}
}

func (s *UserStore) List(_ context.Context, limit, offset int) ([]entity.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, 0, s.Fail
	}
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return []entity.User{}, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]entity.User, 0, end-offset)
	for _, id := range ids[offset:end] {
		u := s.users[id]
		u.Password = ""
		out = append(out, u)
	}
	return out, total, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	return s.emailTaken(email, exceptID), nil
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if err := s.checkConstraints(u, 0); err != nil {
		return err
	}
	s.nextID++
	now := time.Now().UTC()
	u.ID = s.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	if u.MembershipStatus == "" {
		u.MembershipStatus = entity.MembershipBasic
	}
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) Update(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	prev, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.checkConstraints(u, u.ID); err != nil {
		return err
	}
	u.Password = prev.Password
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Put stores u as is, bypassing constraints; tests use it to change data behind the service.
func (s *UserStore) Put(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID > s.nextID {
		s.nextID = u.ID
	}
	s.users[u.ID] = u
}

func (s *UserStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	_, ok := s.roles[id]
	return ok, nil
}

func (s *UserStore) Ensure(_ context.Context, name string) (*entity.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	for _, r := range s.roles {
		if r.Name == name {
			return &r, nil
		}
	}
	s.nextRl++
	now := time.Now().UTC()
	r := entity.Role{ID: s.nextRl, Name: name, CreatedAt: now, UpdatedAt: now}
	s.roles[r.ID] = r
	return &r, nil
}

func (s *UserStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *UserStore) checkConstraints(u *entity.User, exceptID int64) error {
	if s.emailTaken(u.Email, exceptID) {
		return repository.ErrEmailTaken
	}
	if u.RoleID != nil {
		if _, ok := s.roles[*u.RoleID]; !ok {
			return repository.ErrRoleNotFound
		}
	}
	return nil
}

var (
	_ repository.UserRepository = (*UserStore)(nil)
	_ repository.RoleRepository = (*UserStore)(nil)
)
