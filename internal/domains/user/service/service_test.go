package service

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/jwt"
)

const testWallet = "0x52908400098527886E0F7030069857D2E4169EE7"

type userFixture struct {
	repo    *repository.MemoryUserRepository
	service ServiceInterface
}

func newUserFixture() *userFixture {
	repo := repository.NewMemoryUserRepository()
	return &userFixture{
		repo:    repo,
		service: NewUserService(repo, jwt.NewManager("test-secret", 15), 15),
	}
}

func (f *userFixture) promote(t *testing.T, id uuid.UUID) {
	t.Helper()
	user, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	user.Role = model.RoleAdmin
	require.NoError(t, f.repo.Update(context.Background(), user))
}

func (f *userFixture) register(t *testing.T, email string) *model.RegisterResponse {
	t.Helper()
	resp, err := f.service.Register(context.Background(), model.RegisterRequest{
		Email:             email,
		Name:              "Test User",
		BlockchainAddress: testWallet,
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	f := newUserFixture()

	resp := f.register(t, "alice@example.com")
	assert.Len(t, resp.Password, 10)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, model.RoleUser.String(), resp.User.Role)
	assert.NotEqual(t, uuid.Nil, resp.User.ID)

	// Only the hash is stored, never the plaintext.
	stored, err := f.repo.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, resp.Password, stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newUserFixture()
	f.register(t, "alice@example.com")

	_, err := f.service.Register(context.Background(), model.RegisterRequest{
		Email:             "alice@example.com",
		Name:              "Impostor",
		BlockchainAddress: testWallet,
	})
	assert.True(t, errors.Is(err, model.ErrEmailAlreadyExists))
}

func TestRegisterRejectsBadWallet(t *testing.T) {
	f := newUserFixture()

	for _, address := range []string{"", "0x123", "52908400098527886E0F7030069857D2E4169EE7", "0xZZ908400098527886E0F7030069857D2E4169EE7"} {
		_, err := f.service.Register(context.Background(), model.RegisterRequest{
			Email:             "wallet@example.com",
			Name:              "Wallet",
			BlockchainAddress: address,
		})
		require.Error(t, err, "address %q", address)
		var verr validation.Errors
		assert.True(t, errors.As(err, &verr), "address %q", address)
	}
}

func TestLogin(t *testing.T) {
	f := newUserFixture()
	resp := f.register(t, "alice@example.com")

	login, err := f.service.Login(context.Background(), model.LoginRequest{
		Email:    "alice@example.com",
		Password: resp.Password,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newUserFixture()
	f.register(t, "alice@example.com")

	_, err := f.service.Login(context.Background(), model.LoginRequest{
		Email:    "alice@example.com",
		Password: "definitely-wrong",
	})
	assert.True(t, errors.Is(err, model.ErrInvalidCredentials))

	// An unknown email yields the same error, not a not-found leak.
	_, err = f.service.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.True(t, errors.Is(err, model.ErrInvalidCredentials))
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	f := newUserFixture()
	alice := f.register(t, "alice@example.com").User.ID
	bob := f.register(t, "bob@example.com").User.ID
	admin := f.register(t, "admin@example.com").User.ID
	f.promote(t, admin)

	dto, err := f.service.GetUser(context.Background(), alice, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, dto.ID)

	_, err = f.service.GetUser(context.Background(), bob, alice)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	_, err = f.service.GetUser(context.Background(), admin, alice)
	assert.NoError(t, err)
}

func TestUpdateUser(t *testing.T) {
	f := newUserFixture()
	resp := f.register(t, "alice@example.com")
	alice := resp.User.ID
	bob := f.register(t, "bob@example.com").User.ID

	name := "Renamed"
	_, err := f.service.UpdateUser(context.Background(), bob, alice, model.UpdateUserRequest{Name: &name})
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	password := "new-password-123"
	dto, err := f.service.UpdateUser(context.Background(), alice, alice, model.UpdateUserRequest{
		Name:     &name,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", dto.Name)

	// The old password no longer works, the new one does.
	_, err = f.service.Login(context.Background(), model.LoginRequest{Email: "alice@example.com", Password: resp.Password})
	assert.True(t, errors.Is(err, model.ErrInvalidCredentials))
	_, err = f.service.Login(context.Background(), model.LoginRequest{Email: "alice@example.com", Password: password})
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture()
	alice := f.register(t, "alice@example.com").User.ID

	require.NoError(t, f.service.DeleteUser(context.Background(), alice, alice))

	_, err := f.service.GetUser(context.Background(), alice, alice)
	assert.True(t, errors.Is(err, model.ErrUserNotFound))
}

func TestListUsersPagination(t *testing.T) {
	f := newUserFixture()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.register(t, email)
	}

	users, err := f.service.ListUsers(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	rest, err := f.service.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	beyond, err := f.service.ListUsers(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestIsSelfOrAdmin(t *testing.T) {
	f := newUserFixture()
	alice := f.register(t, "alice@example.com").User.ID
	admin := f.register(t, "admin@example.com").User.ID
	f.promote(t, admin)

	assert.True(t, f.service.IsSelfOrAdmin(context.Background(), alice, alice))
	assert.True(t, f.service.IsSelfOrAdmin(context.Background(), admin, alice))
	assert.False(t, f.service.IsSelfOrAdmin(context.Background(), alice, admin))
	assert.False(t, f.service.IsSelfOrAdmin(context.Background(), uuid.Nil, alice))
	assert.False(t, f.service.IsSelfOrAdmin(context.Background(), alice, uuid.Nil))
}
