package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/team/model"
	"nft-market-backend/internal/domains/team/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/cache"
	"nft-market-backend/pkg/logger"
)

const (
	bestSellersTTL        = 30 * time.Second
	bestSellersKeyPattern = "rank:teams:*"
)

type teamService struct {
	repo     repository.TeamRepository
	userRepo userrepo.UserRepository
	cache    cache.Cache // may be nil; ranking then skips caching
}

func NewTeamService(repo repository.TeamRepository, userRepo userrepo.UserRepository, c cache.Cache) ServiceInterface {
	return &teamService{repo: repo, userRepo: userRepo, cache: c}
}

func (s *teamService) CreateTeam(ctx context.Context, creatorID uuid.UUID, req model.CreateTeamRequest) (*model.TeamDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check creator: %w", err)
	}
	if !exists {
		return nil, &model.TeamError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "Creator not found",
			Err:     usermodel.ErrUserNotFound,
		}
	}

	hasTeam, err := s.repo.UserHasTeam(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if hasTeam {
		return nil, model.NewAlreadyInTeamError()
	}

	now := time.Now()
	team := &model.Team{
		ID:        uuid.New(),
		Name:      req.Name,
		Balance:   req.Balance,
		CreatorID: creatorID,
		MemberIDs: []uuid.UUID{creatorID},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.invalidateRanking(ctx)

	dto := model.ToDTO(team)
	return &dto, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, actorID, id uuid.UUID, req model.UpdateTeamRequest) (*model.TeamDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Resolve the team first so an unknown id reads as not found, not
	// as a membership refusal.
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return nil, model.NewTeamNotFoundError()
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if !s.IsMemberOrAdmin(ctx, actorID, id) {
		return nil, model.NewNotMemberError()
	}

	// Balance is only mutated by trade settlement or an admin edit.
	if req.Balance != nil {
		isAdmin, err := s.userRepo.IsAdmin(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check admin role: %w", err)
		}
		if !isAdmin {
			return nil, model.NewBalanceAdminOnlyError()
		}
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Balance != nil {
		team.Balance = *req.Balance
	}
	team.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	s.invalidateRanking(ctx)

	dto := model.ToDTO(team)
	return &dto, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return model.NewTeamNotFoundError()
		}
		return fmt.Errorf("failed to get team: %w", err)
	}

	if !s.IsMemberOrAdmin(ctx, actorID, id) {
		return model.NewNotMemberError()
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return model.NewTeamNotFoundError()
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	s.invalidateRanking(ctx)
	return nil
}

func (s *teamService) GetTeam(ctx context.Context, id uuid.UUID) (*model.TeamDTO, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return nil, model.NewTeamNotFoundError()
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	dto := model.ToDTO(team)
	return &dto, nil
}

func (s *teamService) ListTeams(ctx context.Context, offset, limit int) ([]model.TeamDTO, error) {
	teams, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return toDTOs(teams), nil
}

func (s *teamService) AddMember(ctx context.Context, actorID, teamID, newMemberID uuid.UUID) (*model.TeamDTO, error) {
	// The acting user must already be a member of the target team.
	belongs, err := s.repo.UserBelongsTo(ctx, actorID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !belongs {
		return nil, model.NewNotMemberError()
	}

	exists, err := s.userRepo.Exists(ctx, newMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check candidate: %w", err)
	}
	if !exists {
		return nil, &model.TeamError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "Candidate member not found",
			Err:     usermodel.ErrUserNotFound,
		}
	}

	hasTeam, err := s.repo.UserHasTeam(ctx, newMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check candidate membership: %w", err)
	}
	if hasTeam {
		return nil, model.NewAlreadyInTeamError()
	}

	if err := s.repo.AddMember(ctx, teamID, newMemberID); err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return nil, model.NewTeamNotFoundError()
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	logger.Info("team member added", map[string]interface{}{
		"team_id": teamID.String(),
		"user_id": newMemberID.String(),
	})

	return s.GetTeam(ctx, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, actorID, teamID, memberID uuid.UUID) (*model.TeamDTO, error) {
	if !s.IsMemberOrAdmin(ctx, actorID, teamID) {
		return nil, model.NewNotMemberError()
	}

	exists, err := s.userRepo.Exists(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check member: %w", err)
	}
	if !exists {
		return nil, &model.TeamError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "Member not found",
			Err:     usermodel.ErrUserNotFound,
		}
	}

	belongs, err := s.repo.UserBelongsTo(ctx, memberID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !belongs {
		return nil, model.NewNotMemberError()
	}

	if err := s.repo.RemoveMember(ctx, teamID, memberID); err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return nil, model.NewTeamNotFoundError()
		}
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return s.GetTeam(ctx, teamID)
}

func (s *teamService) BestSellers(ctx context.Context, offset, limit int) ([]model.TeamDTO, error) {
	key := fmt.Sprintf("rank:teams:%d:%d", offset, limit)

	if s.cache != nil {
		var cached []model.TeamDTO
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	teams, err := s.repo.BestSellers(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank teams: %w", err)
	}

	dtos := toDTOs(teams)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dtos, bestSellersTTL); err != nil {
			logger.Error("failed to cache team ranking", err)
		}
	}
	return dtos, nil
}

func (s *teamService) IsMemberOrAdmin(ctx context.Context, userID, teamID uuid.UUID) bool {
	if userID == uuid.Nil || teamID == uuid.Nil {
		return false
	}

	belongs, err := s.repo.UserBelongsTo(ctx, userID, teamID)
	if err == nil && belongs {
		return true
	}

	isAdmin, err := s.userRepo.IsAdmin(ctx, userID)
	return err == nil && isAdmin
}

func (s *teamService) invalidateRanking(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, bestSellersKeyPattern); err != nil {
		logger.Error("failed to invalidate team ranking cache", err)
	}
}

func toDTOs(teams []*model.Team) []model.TeamDTO {
	dtos := make([]model.TeamDTO, 0, len(teams))
	for _, t := range teams {
		dtos = append(dtos, model.ToDTO(t))
	}
	return dtos
}
