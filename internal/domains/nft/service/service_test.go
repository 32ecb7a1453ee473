package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/internal/domains/nft/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
)

type nftFixture struct {
	users   *userrepo.MemoryUserRepository
	nfts    *repository.MemoryNFTRepository
	service ServiceInterface
}

func newNFTFixture() *nftFixture {
	users := userrepo.NewMemoryUserRepository()
	nfts := repository.NewMemoryNFTRepository()
	return &nftFixture{
		users:   users,
		nfts:    nfts,
		service: NewNFTService(nfts, users, nil),
	}
}

func (f *nftFixture) seedUser(t *testing.T, role usermodel.Role) uuid.UUID {
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

func (f *nftFixture) mint(t *testing.T, owner uuid.UUID, status model.Status) *model.NFTDTO {
	t.Helper()
	dto, err := f.service.CreateNFT(context.Background(), owner, model.CreateNFTRequest{
		Name:   "Starfall",
		Image:  "https://cdn.example.com/starfall.png",
		Price:  10,
		Status: status,
	})
	require.NoError(t, err)
	return dto
}

func TestCreateNFT(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)

	dto := f.mint(t, owner, model.StatusDraft)

	assert.Equal(t, owner, dto.OwnerID)
	assert.Equal(t, model.StatusDraft, dto.Status)
	assert.Empty(t, dto.PreviousOwnerIDs)
	assert.Nil(t, dto.CollectionID)
}

func TestCreateNFTUnknownCreator(t *testing.T) {
	f := newNFTFixture()

	_, err := f.service.CreateNFT(context.Background(), uuid.New(), model.CreateNFTRequest{
		Name:   "Ghost",
		Image:  "https://cdn.example.com/ghost.png",
		Price:  5,
		Status: model.StatusDraft,
	})
	assert.True(t, errors.Is(err, usermodel.ErrUserNotFound))
}

func TestUpdateNFTStatusAdvances(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	dto := f.mint(t, owner, model.StatusDraft)

	published := model.StatusPublished
	updated, err := f.service.UpdateNFT(context.Background(), owner, dto.ID, model.UpdateNFTRequest{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, updated.Status)

	archived := model.StatusArchived
	updated, err = f.service.UpdateNFT(context.Background(), owner, dto.ID, model.UpdateNFTRequest{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, updated.Status)
}

func TestUpdateNFTStatusNeverRegresses(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	dto := f.mint(t, owner, model.StatusPublished)

	for _, status := range []model.Status{model.StatusDraft, model.StatusPublished} {
		s := status
		_, err := f.service.UpdateNFT(context.Background(), owner, dto.ID, model.UpdateNFTRequest{Status: &s})
		assert.True(t, errors.Is(err, model.ErrStatusRegression), "status %s", s)
	}

	// The failed transitions left the item untouched.
	got, err := f.service.GetNFT(context.Background(), owner, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, got.Status)
}

func TestUpdateNFTRequiresOwnerOrAdmin(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)
	dto := f.mint(t, owner, model.StatusDraft)

	name := "Renamed"
	_, err := f.service.UpdateNFT(context.Background(), stranger, dto.ID, model.UpdateNFTRequest{Name: &name})
	assert.True(t, errors.Is(err, model.ErrNotOwner))

	updated, err := f.service.UpdateNFT(context.Background(), admin, dto.ID, model.UpdateNFTRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestGetNFTVisibility(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)

	draft := f.mint(t, owner, model.StatusDraft)
	published := f.mint(t, owner, model.StatusPublished)

	// Unpublished items are for the owner and admins only.
	_, err := f.service.GetNFT(context.Background(), uuid.Nil, draft.ID)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
	_, err = f.service.GetNFT(context.Background(), stranger, draft.ID)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))

	_, err = f.service.GetNFT(context.Background(), owner, draft.ID)
	assert.NoError(t, err)
	_, err = f.service.GetNFT(context.Background(), admin, draft.ID)
	assert.NoError(t, err)

	// Published items are visible to everybody, including anonymous.
	_, err = f.service.GetNFT(context.Background(), uuid.Nil, published.ID)
	assert.NoError(t, err)
}

func TestListNFTsAnonymousSeesPublishedOnly(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)

	f.mint(t, owner, model.StatusDraft)
	published := f.mint(t, owner, model.StatusPublished)

	anon, total, err := f.service.ListNFTs(context.Background(), uuid.Nil, 0, 20)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, published.ID, anon[0].ID)

	all, total, err := f.service.ListNFTs(context.Background(), owner, 0, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, total)
}

func TestListNFTsOffsetBeyondEnd(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	f.mint(t, owner, model.StatusPublished)

	page, total, err := f.service.ListNFTs(context.Background(), owner, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 1, total)
}

func TestIsOwnerOrAdmin(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)
	dto := f.mint(t, owner, model.StatusDraft)

	ctx := context.Background()
	assert.True(t, f.service.IsOwnerOrAdmin(ctx, owner, dto.ID))
	assert.True(t, f.service.IsOwnerOrAdmin(ctx, admin, dto.ID))
	assert.False(t, f.service.IsOwnerOrAdmin(ctx, stranger, dto.ID))

	// Missing ids never error, they are simply not owners.
	assert.False(t, f.service.IsOwnerOrAdmin(ctx, uuid.Nil, dto.ID))
	assert.False(t, f.service.IsOwnerOrAdmin(ctx, owner, uuid.Nil))
	assert.False(t, f.service.IsOwnerOrAdmin(ctx, uuid.New(), uuid.New()))
}

func TestDeleteNFT(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)
	dto := f.mint(t, owner, model.StatusDraft)

	err := f.service.DeleteNFT(context.Background(), stranger, dto.ID)
	assert.True(t, errors.Is(err, model.ErrNotOwner))

	require.NoError(t, f.service.DeleteNFT(context.Background(), owner, dto.ID))

	_, err = f.service.GetNFT(context.Background(), owner, dto.ID)
	assert.True(t, errors.Is(err, model.ErrNFTNotFound))
}

func TestListByCollectionVisibility(t *testing.T) {
	f := newNFTFixture()
	owner := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)

	collectionID := uuid.New()
	published := f.mint(t, owner, model.StatusPublished)
	draft := f.mint(t, owner, model.StatusDraft)
	f.mint(t, owner, model.StatusPublished) // never collected

	ctx := context.Background()
	require.NoError(t, f.nfts.SetCollection(ctx, published.ID, collectionID))
	require.NoError(t, f.nfts.SetCollection(ctx, draft.ID, collectionID))

	// Anonymous and strangers only see the published member.
	for _, actor := range []uuid.UUID{uuid.Nil, stranger} {
		items, err := f.service.ListByCollection(ctx, actor, collectionID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, published.ID, items[0].ID)
	}

	// The owner and an admin see both.
	for _, actor := range []uuid.UUID{owner, admin} {
		items, err := f.service.ListByCollection(ctx, actor, collectionID)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	}
}
