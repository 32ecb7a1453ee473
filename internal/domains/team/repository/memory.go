package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/team/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
)

// MemoryTeamRepository is the in-memory implementation used by tests.
// It mirrors the postgres behaviour, including the cross-table
// membership writes: it keeps the user repository's team_id in sync.
type MemoryTeamRepository struct {
	mu    sync.RWMutex
	teams map[uuid.UUID]*model.Team
	order []uuid.UUID

	users *userrepo.MemoryUserRepository
}

func NewMemoryTeamRepository(users *userrepo.MemoryUserRepository) *MemoryTeamRepository {
	return &MemoryTeamRepository{
		teams: make(map[uuid.UUID]*model.Team),
		users: users,
	}
}

func cloneTeam(t *model.Team) *model.Team {
	c := *t
	c.MemberIDs = append([]uuid.UUID(nil), t.MemberIDs...)
	if t.DeletedAt != nil {
		deletedAt := *t.DeletedAt
		c.DeletedAt = &deletedAt
	}
	return &c
}

func (r *MemoryTeamRepository) Create(ctx context.Context, team *model.Team) error {
	r.mu.Lock()
	r.teams[team.ID] = cloneTeam(team)
	r.order = append(r.order, team.ID)
	r.mu.Unlock()

	return r.users.JoinTeam(ctx, team.CreatorID, team.ID)
}

func (r *MemoryTeamRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	if !ok || t.DeletedAt != nil {
		return nil, model.ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

func (r *MemoryTeamRepository) Update(_ context.Context, team *model.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.teams[team.ID]
	if !ok || existing.DeletedAt != nil {
		return model.ErrTeamNotFound
	}

	updated := cloneTeam(team)
	updated.CreatedAt = existing.CreatedAt
	r.teams[team.ID] = updated
	return nil
}

func (r *MemoryTeamRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	t, ok := r.teams[id]
	if !ok || t.DeletedAt != nil {
		r.mu.Unlock()
		return model.ErrTeamNotFound
	}

	now := time.Now()
	t.DeletedAt = &now
	members := append([]uuid.UUID(nil), t.MemberIDs...)
	r.mu.Unlock()

	for _, memberID := range members {
		if err := r.users.LeaveTeam(ctx, memberID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryTeamRepository) live() []*model.Team {
	teams := []*model.Team{}
	for _, id := range r.order {
		if t := r.teams[id]; t.DeletedAt == nil {
			teams = append(teams, cloneTeam(t))
		}
	}
	return teams
}

func paginateTeams(teams []*model.Team, offset, limit int) []*model.Team {
	if offset >= len(teams) {
		return []*model.Team{}
	}
	end := offset + limit
	if limit <= 0 || end > len(teams) {
		end = len(teams)
	}
	return teams[offset:end]
}

func (r *MemoryTeamRepository) List(_ context.Context, offset, limit int) ([]*model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginateTeams(r.live(), offset, limit), nil
}

func (r *MemoryTeamRepository) BestSellers(_ context.Context, offset, limit int) ([]*model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := r.live()
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Balance > teams[j].Balance
	})
	return paginateTeams(teams, offset, limit), nil
}

func (r *MemoryTeamRepository) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	r.mu.Lock()
	t, ok := r.teams[teamID]
	if !ok || t.DeletedAt != nil {
		r.mu.Unlock()
		return model.ErrTeamNotFound
	}
	if !t.HasMember(userID) {
		t.MemberIDs = append(t.MemberIDs, userID)
	}
	r.mu.Unlock()

	return r.users.JoinTeam(ctx, userID, teamID)
}

func (r *MemoryTeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	r.mu.Lock()
	t, ok := r.teams[teamID]
	if !ok || t.DeletedAt != nil {
		r.mu.Unlock()
		return model.ErrTeamNotFound
	}

	members := t.MemberIDs[:0]
	for _, id := range t.MemberIDs {
		if id != userID {
			members = append(members, id)
		}
	}
	t.MemberIDs = members
	r.mu.Unlock()

	return r.users.LeaveTeam(ctx, userID)
}

func (r *MemoryTeamRepository) UserHasTeam(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return false, nil
	}
	if u.TeamID == nil {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[*u.TeamID]
	return ok && t.DeletedAt == nil, nil
}

func (r *MemoryTeamRepository) UserBelongsTo(_ context.Context, userID, teamID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	if !ok || t.DeletedAt != nil {
		return false, nil
	}
	return t.HasMember(userID), nil
}

// AdjustBalances applies a settlement transfer. Used by the sale
// memory repository to keep both balances consistent under one lock.
func (r *MemoryTeamRepository) AdjustBalances(sellerTeamID, buyerTeamID uuid.UUID, price int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seller, ok := r.teams[sellerTeamID]
	if !ok || seller.DeletedAt != nil {
		return model.ErrTeamNotFound
	}
	buyer, ok := r.teams[buyerTeamID]
	if !ok || buyer.DeletedAt != nil {
		return model.ErrTeamNotFound
	}

	buyer.Balance -= price
	seller.Balance += price
	return nil
}
