package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/user/model"
)

// MemoryUserRepository is the in-memory implementation used by tests.
// It honors the same contract as the postgres repository, including
// soft-delete filtering and insertion-order listing.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
	order []uuid.UUID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*model.User)}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.TeamID != nil {
		teamID := *u.TeamID
		c.TeamID = &teamID
	}
	if u.DeletedAt != nil {
		deletedAt := *u.DeletedAt
		c.DeletedAt = &deletedAt
	}
	return &c
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email && existing.DeletedAt == nil {
			return model.ErrEmailAlreadyExists
		}
	}

	r.users[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			return cloneUser(u), nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *MemoryUserRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	return ok && u.DeletedAt == nil, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok || existing.DeletedAt != nil {
		return model.ErrUserNotFound
	}

	updated := cloneUser(user)
	updated.CreatedAt = existing.CreatedAt
	r.users[user.ID] = updated
	return nil
}

func (r *MemoryUserRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}

	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, offset, limit int) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	live := []*model.User{}
	for _, id := range r.order {
		if u := r.users[id]; u.DeletedAt == nil {
			live = append(live, cloneUser(u))
		}
	}

	return paginateUsers(live, offset, limit), nil
}

func paginateUsers(users []*model.User, offset, limit int) []*model.User {
	if offset >= len(users) {
		return []*model.User{}
	}
	end := offset + limit
	if limit <= 0 || end > len(users) {
		end = len(users)
	}
	return users[offset:end]
}

func (r *MemoryUserRepository) JoinTeam(_ context.Context, userID, teamID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}

	id := teamID
	u.TeamID = &id
	return nil
}

func (r *MemoryUserRepository) LeaveTeam(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}

	u.TeamID = nil
	return nil
}

func (r *MemoryUserRepository) IsAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	return ok && u.DeletedAt == nil && u.Role == model.RoleAdmin, nil
}
