package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/jwt"
	"nft-market-backend/pkg/logger"
)

const (
	bcryptCost         = bcrypt.DefaultCost
	generatedPwdLength = 10
)

const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()"

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
	tokenTTL   time.Duration
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager, tokenTTLMinutes int) ServiceInterface {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		tokenTTL:   time.Duration(tokenTTLMinutes) * time.Minute,
	}
}

// randomPassword draws a password from the fixed charset.
// The plaintext is returned to the caller exactly once at
// registration; only the bcrypt hash is stored.
func randomPassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = passwordCharset[n.Int64()]
	}
	return string(buf), nil
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	password, err := randomPassword(generatedPwdLength)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:                uuid.New(),
		Email:             req.Email,
		Name:              req.Name,
		PasswordHash:      string(hash),
		BlockchainAddress: req.BlockchainAddress,
		Role:              model.RoleUser,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, model.NewEmailAlreadyExistsError(req.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})

	return &model.RegisterResponse{
		User:     model.ToDTO(user),
		Password: password,
	}, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	token, err := s.jwtManager.GenerateToken(user.ID.String(), user.Email, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenTTL),
		User:        model.ToDTO(user),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, requesterID, id uuid.UUID) (*model.UserDTO, error) {
	if !s.IsSelfOrAdmin(ctx, requesterID, id) {
		return nil, model.NewUnauthorizedError("You can only view your own account")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := model.ToDTO(user)
	return &dto, nil
}

func (s *userService) UpdateUser(ctx context.Context, requesterID, id uuid.UUID, req model.UpdateUserRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.IsSelfOrAdmin(ctx, requesterID, id) {
		return nil, model.NewUnauthorizedError("You can only update your own account")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.BlockchainAddress != nil {
		user.BlockchainAddress = *req.BlockchainAddress
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	dto := model.ToDTO(user)
	return &dto, nil
}

func (s *userService) DeleteUser(ctx context.Context, requesterID, id uuid.UUID) error {
	if !s.IsSelfOrAdmin(ctx, requesterID, id) {
		return model.NewUnauthorizedError("You can only delete your own account")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.NewUserNotFoundError()
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]model.UserDTO, error) {
	users, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]model.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, model.ToDTO(u))
	}
	return dtos, nil
}

func (s *userService) IsSelfOrAdmin(ctx context.Context, actorID, targetID uuid.UUID) bool {
	if actorID == uuid.Nil || targetID == uuid.Nil {
		return false
	}
	if actorID == targetID {
		return true
	}

	isAdmin, err := s.repo.IsAdmin(ctx, actorID)
	if err != nil {
		return false
	}
	return isAdmin
}
