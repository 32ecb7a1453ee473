package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-backend/internal/domains/team/model"
	"nft-market-backend/internal/domains/team/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
)

type teamFixture struct {
	users   *userrepo.MemoryUserRepository
	teams   *repository.MemoryTeamRepository
	service ServiceInterface
}

func newTeamFixture() *teamFixture {
	users := userrepo.NewMemoryUserRepository()
	teams := repository.NewMemoryTeamRepository(users)
	return &teamFixture{
		users:   users,
		teams:   teams,
		service: NewTeamService(teams, users, nil),
	}
}

func (f *teamFixture) seedUser(t *testing.T, role usermodel.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := f.users.Create(context.Background(), &usermodel.User{
		ID:    id,
		Email: id.String() + "@example.com",
		Name:  "user-" + id.String()[:8],
		Role:  role,
	})
	require.NoError(t, err)
	return id
}

func TestCreateTeam(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)

	dto, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{
		Name:    "Vault Dwellers",
		Balance: 250,
	})
	require.NoError(t, err)
	assert.Equal(t, "Vault Dwellers", dto.Name)
	assert.Equal(t, int64(250), dto.Balance)
	assert.Equal(t, creator, dto.CreatorID)
	assert.Equal(t, []uuid.UUID{creator}, dto.MemberIDs)

	// The founder now belongs to the team.
	user, err := f.users.GetByID(context.Background(), creator)
	require.NoError(t, err)
	require.NotNil(t, user.TeamID)
	assert.Equal(t, dto.ID, *user.TeamID)
}

func TestCreateTeamCreatorAlreadyTeamed(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)

	_, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "First"})
	require.NoError(t, err)

	_, err = f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Second"})
	assert.True(t, errors.Is(err, model.ErrAlreadyInTeam))
}

func TestCreateTeamUnknownCreator(t *testing.T) {
	f := newTeamFixture()

	_, err := f.service.CreateTeam(context.Background(), uuid.New(), model.CreateTeamRequest{Name: "Ghosts"})
	assert.True(t, errors.Is(err, usermodel.ErrUserNotFound))
}

func TestAddMember(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	recruit := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Openers"})
	require.NoError(t, err)

	dto, err := f.service.AddMember(context.Background(), creator, team.ID, recruit)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{creator, recruit}, dto.MemberIDs)

	user, err := f.users.GetByID(context.Background(), recruit)
	require.NoError(t, err)
	require.NotNil(t, user.TeamID)
	assert.Equal(t, team.ID, *user.TeamID)
}

func TestAddMemberRejectsTeamedCandidate(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	rival := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Home"})
	require.NoError(t, err)
	_, err = f.service.CreateTeam(context.Background(), rival, model.CreateTeamRequest{Name: "Away"})
	require.NoError(t, err)

	_, err = f.service.AddMember(context.Background(), creator, team.ID, rival)
	assert.True(t, errors.Is(err, model.ErrAlreadyInTeam))
}

func TestAddMemberRequiresActingMember(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	outsider := f.seedUser(t, usermodel.RoleUser)
	recruit := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Closed"})
	require.NoError(t, err)

	_, err = f.service.AddMember(context.Background(), outsider, team.ID, recruit)
	assert.True(t, errors.Is(err, model.ErrNotMember))
}

func TestRemoveMember(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	recruit := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Revolving"})
	require.NoError(t, err)
	_, err = f.service.AddMember(context.Background(), creator, team.ID, recruit)
	require.NoError(t, err)

	dto, err := f.service.RemoveMember(context.Background(), creator, team.ID, recruit)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{creator}, dto.MemberIDs)

	// The departed user is free to join another team.
	user, err := f.users.GetByID(context.Background(), recruit)
	require.NoError(t, err)
	assert.Nil(t, user.TeamID)

	_, err = f.service.RemoveMember(context.Background(), creator, team.ID, recruit)
	assert.True(t, errors.Is(err, model.ErrNotMember))
}

func TestUpdateTeamBalanceAdminOnly(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Treasury", Balance: 10})
	require.NoError(t, err)

	balance := int64(500)
	_, err = f.service.UpdateTeam(context.Background(), creator, team.ID, model.UpdateTeamRequest{Balance: &balance})
	assert.True(t, errors.Is(err, model.ErrBalanceAdminOnly))

	dto, err := f.service.UpdateTeam(context.Background(), admin, team.ID, model.UpdateTeamRequest{Balance: &balance})
	require.NoError(t, err)
	assert.Equal(t, int64(500), dto.Balance)
}

func TestUpdateTeamRename(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Before"})
	require.NoError(t, err)

	name := "After"
	_, err = f.service.UpdateTeam(context.Background(), stranger, team.ID, model.UpdateTeamRequest{Name: &name})
	assert.True(t, errors.Is(err, model.ErrNotMember))

	dto, err := f.service.UpdateTeam(context.Background(), creator, team.ID, model.UpdateTeamRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", dto.Name)
}

func TestUpdateDeleteUnknownTeamIsNotFound(t *testing.T) {
	f := newTeamFixture()
	actor := f.seedUser(t, usermodel.RoleUser)
	ghost := uuid.New()

	// An unknown id must not read as a membership refusal.
	name := "Whatever"
	_, err := f.service.UpdateTeam(context.Background(), actor, ghost, model.UpdateTeamRequest{Name: &name})
	assert.True(t, errors.Is(err, model.ErrTeamNotFound))

	err = f.service.DeleteTeam(context.Background(), actor, ghost)
	assert.True(t, errors.Is(err, model.ErrTeamNotFound))
}

func TestDeleteTeamReleasesMembers(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	recruit := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Doomed"})
	require.NoError(t, err)
	_, err = f.service.AddMember(context.Background(), creator, team.ID, recruit)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteTeam(context.Background(), creator, team.ID))

	_, err = f.service.GetTeam(context.Background(), team.ID)
	assert.True(t, errors.Is(err, model.ErrTeamNotFound))

	for _, id := range []uuid.UUID{creator, recruit} {
		user, err := f.users.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, user.TeamID)
	}
}

func TestBestSellersOrdersByBalance(t *testing.T) {
	f := newTeamFixture()

	poor := f.seedUser(t, usermodel.RoleUser)
	rich := f.seedUser(t, usermodel.RoleUser)
	middling := f.seedUser(t, usermodel.RoleUser)

	_, err := f.service.CreateTeam(context.Background(), poor, model.CreateTeamRequest{Name: "Poor", Balance: 5})
	require.NoError(t, err)
	_, err = f.service.CreateTeam(context.Background(), rich, model.CreateTeamRequest{Name: "Rich", Balance: 900})
	require.NoError(t, err)
	_, err = f.service.CreateTeam(context.Background(), middling, model.CreateTeamRequest{Name: "Middling", Balance: 40})
	require.NoError(t, err)

	ranked, err := f.service.BestSellers(context.Background(), 0, 20)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"Rich", "Middling", "Poor"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})

	page, err := f.service.BestSellers(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Middling", page[0].Name)
}

func TestIsMemberOrAdmin(t *testing.T) {
	f := newTeamFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)
	stranger := f.seedUser(t, usermodel.RoleUser)

	team, err := f.service.CreateTeam(context.Background(), creator, model.CreateTeamRequest{Name: "Guarded"})
	require.NoError(t, err)

	assert.True(t, f.service.IsMemberOrAdmin(context.Background(), creator, team.ID))
	assert.True(t, f.service.IsMemberOrAdmin(context.Background(), admin, team.ID))
	assert.False(t, f.service.IsMemberOrAdmin(context.Background(), stranger, team.ID))
	assert.False(t, f.service.IsMemberOrAdmin(context.Background(), uuid.Nil, team.ID))
}
