package service

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-backend/internal/domains/collection/model"
	"nft-market-backend/internal/domains/collection/repository"
	nftmodel "nft-market-backend/internal/domains/nft/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
)

type collectionFixture struct {
	users       *userrepo.MemoryUserRepository
	nfts        *nftrepo.MemoryNFTRepository
	collections *repository.MemoryCollectionRepository
	service     ServiceInterface
}

func newCollectionFixture() *collectionFixture {
	users := userrepo.NewMemoryUserRepository()
	nfts := nftrepo.NewMemoryNFTRepository()
	collections := repository.NewMemoryCollectionRepository(nfts)
	return &collectionFixture{
		users:       users,
		nfts:        nfts,
		collections: collections,
		service:     NewCollectionService(collections, nfts, users, nil),
	}
}

func (f *collectionFixture) seedUser(t *testing.T, role usermodel.Role) uuid.UUID {
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

func (f *collectionFixture) seedNFT(t *testing.T, owner uuid.UUID, status nftmodel.Status, price int64) uuid.UUID {
	t.Helper()
	nft := &nftmodel.NFT{
		Name:    "item",
		Image:   "https://cdn.example.com/item.png",
		Price:   price,
		OwnerID: owner,
		Status:  status,
	}
	require.NoError(t, f.nfts.Create(context.Background(), nft))
	return nft.ID
}

func TestCreateCollection(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	nftID := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)

	dto, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Genesis",
		Logo:   "https://cdn.example.com/genesis.png",
		Status: nftmodel.StatusPublished,
		NFTIDs: []uuid.UUID{nftID},
	})
	require.NoError(t, err)
	assert.Equal(t, creator, dto.CreatorID)
	require.Len(t, dto.NFTIDs, 1)

	// The item now carries its collection.
	nft, err := f.nfts.GetByID(context.Background(), nftID)
	require.NoError(t, err)
	require.NotNil(t, nft.CollectionID)
	assert.Equal(t, dto.ID, *nft.CollectionID)
}

func TestCreateCollectionUnknownNFTCreatesNothing(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	known := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)

	_, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Broken",
		Logo:   "https://cdn.example.com/broken.png",
		Status: nftmodel.StatusDraft,
		NFTIDs: []uuid.UUID{known, uuid.New()},
	})
	assert.True(t, errors.Is(err, nftmodel.ErrNFTNotFound))

	// The known item was left untouched and no collection exists.
	nft, getErr := f.nfts.GetByID(context.Background(), known)
	require.NoError(t, getErr)
	assert.Nil(t, nft.CollectionID)

	list, total, listErr := f.service.ListCollections(context.Background(), creator, 0, 20)
	require.NoError(t, listErr)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
}

func TestCreateCollectionRejectsDuplicateIDs(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	nftID := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)

	_, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Twice",
		Logo:   "https://cdn.example.com/twice.png",
		Status: nftmodel.StatusPublished,
		NFTIDs: []uuid.UUID{nftID, nftID},
	})
	var vErrs validation.Errors
	require.True(t, errors.As(err, &vErrs))

	// The item stays free and no collection was registered.
	nft, getErr := f.nfts.GetByID(context.Background(), nftID)
	require.NoError(t, getErr)
	assert.Nil(t, nft.CollectionID)

	list, total, listErr := f.service.ListCollections(context.Background(), creator, 0, 20)
	require.NoError(t, listErr)
	assert.Empty(t, list)
	assert.Equal(t, 0, total)
}

func TestMemoryCreateUnstampsOnConflict(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	free := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)
	taken := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)
	require.NoError(t, f.nfts.SetCollection(context.Background(), taken, uuid.New()))

	// Drive the repository directly: the service pre-checks make this
	// unreachable in a single call, but a concurrent stamp can still
	// surface the conflict inside Create.
	err := f.collections.Create(context.Background(), &model.Collection{
		Name:      "Halfway",
		Logo:      "https://cdn.example.com/halfway.png",
		Status:    nftmodel.StatusPublished,
		CreatorID: creator,
		NFTIDs:    []uuid.UUID{free, taken},
	})
	require.True(t, errors.Is(err, nftmodel.ErrAlreadyCollected))

	// The stamp written before the conflict was rolled back.
	nft, getErr := f.nfts.GetByID(context.Background(), free)
	require.NoError(t, getErr)
	assert.Nil(t, nft.CollectionID)
}

func TestAddNFT(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	nftID := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)

	dto, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Genesis",
		Logo:   "https://cdn.example.com/genesis.png",
		Status: nftmodel.StatusPublished,
	})
	require.NoError(t, err)

	updated, err := f.service.AddNFT(context.Background(), creator, dto.ID, nftID)
	require.NoError(t, err)
	assert.Contains(t, updated.NFTIDs, nftID)

	// Second add of the same item conflicts.
	_, err = f.service.AddNFT(context.Background(), creator, dto.ID, nftID)
	assert.True(t, errors.Is(err, nftmodel.ErrAlreadyCollected))
}

func TestAddNFTArchivedRules(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	archivedNFT := f.seedNFT(t, creator, nftmodel.StatusArchived, 10)
	liveNFT := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)

	open, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Open",
		Logo:   "https://cdn.example.com/open.png",
		Status: nftmodel.StatusPublished,
	})
	require.NoError(t, err)
	sealed, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Sealed",
		Logo:   "https://cdn.example.com/sealed.png",
		Status: nftmodel.StatusArchived,
	})
	require.NoError(t, err)

	_, err = f.service.AddNFT(context.Background(), creator, open.ID, archivedNFT)
	assert.True(t, errors.Is(err, model.ErrNFTArchived))

	_, err = f.service.AddNFT(context.Background(), creator, sealed.ID, liveNFT)
	assert.True(t, errors.Is(err, model.ErrCollectionArchived))
}

func TestAddNFTAlreadyInAnotherCollection(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	nftID := f.seedNFT(t, creator, nftmodel.StatusPublished, 10)

	first, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "First",
		Logo:   "https://cdn.example.com/first.png",
		Status: nftmodel.StatusPublished,
		NFTIDs: []uuid.UUID{nftID},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Second",
		Logo:   "https://cdn.example.com/second.png",
		Status: nftmodel.StatusPublished,
	})
	require.NoError(t, err)

	_, err = f.service.AddNFT(context.Background(), creator, second.ID, nftID)
	assert.True(t, errors.Is(err, nftmodel.ErrAlreadyCollected))
}

func TestUpdateCollectionArchivedRejectsCreatorNotAdmin(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	admin := f.seedUser(t, usermodel.RoleAdmin)

	dto, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Relic",
		Logo:   "https://cdn.example.com/relic.png",
		Status: nftmodel.StatusArchived,
	})
	require.NoError(t, err)

	name := "Renamed"
	_, err = f.service.UpdateCollection(context.Background(), creator, dto.ID, model.UpdateCollectionRequest{Name: &name})
	assert.True(t, errors.Is(err, model.ErrCollectionArchived))

	updated, err := f.service.UpdateCollection(context.Background(), admin, dto.ID, model.UpdateCollectionRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestUpdateCollectionUnauthorized(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)

	dto, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Private",
		Logo:   "https://cdn.example.com/private.png",
		Status: nftmodel.StatusDraft,
	})
	require.NoError(t, err)

	name := "Hijacked"
	_, err = f.service.UpdateCollection(context.Background(), stranger, dto.ID, model.UpdateCollectionRequest{Name: &name})
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
}

func TestGetCollectionVisibility(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)
	stranger := f.seedUser(t, usermodel.RoleUser)

	draft, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Draft",
		Logo:   "https://cdn.example.com/draft.png",
		Status: nftmodel.StatusDraft,
	})
	require.NoError(t, err)

	_, err = f.service.GetCollection(context.Background(), uuid.Nil, draft.ID)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
	_, err = f.service.GetCollection(context.Background(), stranger, draft.ID)
	assert.True(t, errors.Is(err, model.ErrUnauthorized))
	_, err = f.service.GetCollection(context.Background(), creator, draft.ID)
	assert.NoError(t, err)
}

func TestTopCollectionsOrdersByTotalValue(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)

	cheap := f.seedNFT(t, creator, nftmodel.StatusPublished, 5)
	dear := f.seedNFT(t, creator, nftmodel.StatusPublished, 50)

	low, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Low",
		Logo:   "https://cdn.example.com/low.png",
		Status: nftmodel.StatusPublished,
		NFTIDs: []uuid.UUID{cheap},
	})
	require.NoError(t, err)
	high, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "High",
		Logo:   "https://cdn.example.com/high.png",
		Status: nftmodel.StatusPublished,
		NFTIDs: []uuid.UUID{dear},
	})
	require.NoError(t, err)

	ranks, err := f.service.TopCollections(context.Background(), creator, 0, 20)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, high.ID, ranks[0].Collection.ID)
	assert.Equal(t, low.ID, ranks[1].Collection.ID)
	assert.True(t, ranks[0].TotalValue.GreaterThan(ranks[1].TotalValue))
}

func TestTopCollectionsAnonymousSeesPublishedOnly(t *testing.T) {
	f := newCollectionFixture()
	creator := f.seedUser(t, usermodel.RoleUser)

	_, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Hidden",
		Logo:   "https://cdn.example.com/hidden.png",
		Status: nftmodel.StatusDraft,
	})
	require.NoError(t, err)
	published, err := f.service.CreateCollection(context.Background(), creator, model.CreateCollectionRequest{
		Name:   "Visible",
		Logo:   "https://cdn.example.com/visible.png",
		Status: nftmodel.StatusPublished,
	})
	require.NoError(t, err)

	ranks, err := f.service.TopCollections(context.Background(), uuid.Nil, 0, 20)
	require.NoError(t, err)
	require.Len(t, ranks, 1)
	assert.Equal(t, published.ID, ranks[0].Collection.ID)
}
