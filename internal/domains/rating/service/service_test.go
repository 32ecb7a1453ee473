package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	"nft-market-backend/internal/domains/rating/model"
	"nft-market-backend/internal/domains/rating/repository"
	teammodel "nft-market-backend/internal/domains/team/model"
	teamrepo "nft-market-backend/internal/domains/team/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
)

type ratingFixture struct {
	users   *userrepo.MemoryUserRepository
	teams   *teamrepo.MemoryTeamRepository
	nfts    *nftrepo.MemoryNFTRepository
	ratings *repository.MemoryRatingRepository
	service ServiceInterface
}

func newRatingFixture() *ratingFixture {
	users := userrepo.NewMemoryUserRepository()
	teams := teamrepo.NewMemoryTeamRepository(users)
	nfts := nftrepo.NewMemoryNFTRepository()
	ratings := repository.NewMemoryRatingRepository(nfts)
	return &ratingFixture{
		users:   users,
		teams:   teams,
		nfts:    nfts,
		ratings: ratings,
		service: NewRatingService(ratings, users, teams, nfts, nil),
	}
}

func (f *ratingFixture) seedUser(t *testing.T, role usermodel.Role) uuid.UUID {
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

func (f *ratingFixture) seedTeam(t *testing.T, creator uuid.UUID, members ...uuid.UUID) uuid.UUID {
	t.Helper()
	now := time.Now()
	team := &teammodel.Team{
		ID:        uuid.New(),
		Name:      "team-" + uuid.NewString()[:8],
		CreatorID: creator,
		MemberIDs: []uuid.UUID{creator},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.teams.Create(context.Background(), team))
	for _, member := range members {
		require.NoError(t, f.teams.AddMember(context.Background(), team.ID, member))
	}
	return team.ID
}

func (f *ratingFixture) seedNFT(t *testing.T, owner uuid.UUID) uuid.UUID {
	t.Helper()
	nft := &nftmodel.NFT{
		Name:    "item",
		Image:   "https://cdn.example.com/item.png",
		Price:   10,
		OwnerID: owner,
		Status:  nftmodel.StatusPublished,
	}
	require.NoError(t, f.nfts.Create(context.Background(), nft))
	return nft.ID
}

func TestCreateRating(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	rater := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner)
	f.seedTeam(t, rater)
	nftID := f.seedNFT(t, owner)

	dto, err := f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, dto.Score)
	assert.Equal(t, rater, dto.UserID)
}

func TestCreateRatingRequiresTeam(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	loner := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner)
	nftID := f.seedNFT(t, owner)

	_, err := f.service.CreateRating(context.Background(), loner, model.CreateRatingRequest{NFTID: nftID, Score: 3})
	assert.True(t, errors.Is(err, model.ErrNotInTeam))
}

func TestCreateRatingRejectsOwnTeamItem(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	teammate := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner, teammate)
	nftID := f.seedNFT(t, owner)

	// The owner's teammate may not score the team's own item.
	_, err := f.service.CreateRating(context.Background(), teammate, model.CreateRatingRequest{NFTID: nftID, Score: 5})
	assert.True(t, errors.Is(err, model.ErrOwnTeamNFT))

	// Neither may the owner.
	_, err = f.service.CreateRating(context.Background(), owner, model.CreateRatingRequest{NFTID: nftID, Score: 5})
	assert.True(t, errors.Is(err, model.ErrOwnTeamNFT))
}

func TestCreateRatingDuplicateConflicts(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	rater := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner)
	f.seedTeam(t, rater)
	nftID := f.seedNFT(t, owner)

	_, err := f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: 4})
	require.NoError(t, err)

	_, err = f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: 2})
	assert.True(t, errors.Is(err, model.ErrAlreadyRated))
}

func TestCreateRatingScoreBounds(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	rater := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner)
	f.seedTeam(t, rater)
	nftID := f.seedNFT(t, owner)

	for _, score := range []int{0, 6, -1} {
		_, err := f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: score})
		assert.Error(t, err, "score %d", score)
	}
}

func TestUpdateRatingAuthorOnly(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	rater := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)
	f.seedTeam(t, owner)
	f.seedTeam(t, rater)
	nftID := f.seedNFT(t, owner)

	dto, err := f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: 3})
	require.NoError(t, err)

	_, err = f.service.UpdateRating(context.Background(), stranger, dto.ID, model.UpdateRatingRequest{Score: 1})
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	updated, err := f.service.UpdateRating(context.Background(), rater, dto.ID, model.UpdateRatingRequest{Score: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Score)

	updated, err = f.service.UpdateRating(context.Background(), admin, dto.ID, model.UpdateRatingRequest{Score: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Score)
}

func TestTopRatedAverages(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	raterA := f.seedUser(t, usermodel.RoleUser)
	raterB := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner)
	f.seedTeam(t, raterA)
	f.seedTeam(t, raterB)

	good := f.seedNFT(t, owner)
	mixed := f.seedNFT(t, owner)

	for _, seed := range []struct {
		rater uuid.UUID
		nft   uuid.UUID
		score int
	}{
		{raterA, good, 5},
		{raterB, good, 5},
		{raterA, mixed, 5},
		{raterB, mixed, 2},
	} {
		_, err := f.service.CreateRating(context.Background(), seed.rater, model.CreateRatingRequest{NFTID: seed.nft, Score: seed.score})
		require.NoError(t, err)
	}

	ranks, err := f.service.TopRated(context.Background(), owner, 0, 20)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, good, ranks[0].NFTID)
	assert.True(t, ranks[0].Average.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, mixed, ranks[1].NFTID)
	assert.True(t, ranks[1].Average.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, 2, ranks[1].Count)
}

func TestDeleteRatingAllowsRerate(t *testing.T) {
	f := newRatingFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	rater := f.seedUser(t, usermodel.RoleUser)
	f.seedTeam(t, owner)
	f.seedTeam(t, rater)
	nftID := f.seedNFT(t, owner)

	dto, err := f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: 3})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteRating(context.Background(), rater, dto.ID))

	_, err = f.service.CreateRating(context.Background(), rater, model.CreateRatingRequest{NFTID: nftID, Score: 4})
	assert.NoError(t, err)
}
