package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	"nft-market-backend/internal/domains/sale/model"
	"nft-market-backend/internal/domains/sale/repository"
	teammodel "nft-market-backend/internal/domains/team/model"
	teamrepo "nft-market-backend/internal/domains/team/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
)

type saleFixture struct {
	users   *userrepo.MemoryUserRepository
	teams   *teamrepo.MemoryTeamRepository
	nfts    *nftrepo.MemoryNFTRepository
	sales   *repository.MemorySaleRepository
	service ServiceInterface
}

func newSaleFixture() *saleFixture {
	users := userrepo.NewMemoryUserRepository()
	teams := teamrepo.NewMemoryTeamRepository(users)
	nfts := nftrepo.NewMemoryNFTRepository()
	sales := repository.NewMemorySaleRepository(nfts, teams)
	return &saleFixture{
		users:   users,
		teams:   teams,
		nfts:    nfts,
		sales:   sales,
		service: NewSaleService(sales, users, nfts, teams, nil),
	}
}

func (f *saleFixture) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := f.users.Create(context.Background(), &usermodel.User{
		ID:    id,
		Email: id.String() + "@example.com",
		Name:  "user-" + id.String()[:8],
		Role:  usermodel.RoleUser,
	})
	require.NoError(t, err)
	return id
}

func (f *saleFixture) seedTeam(t *testing.T, creator uuid.UUID, balance int64) uuid.UUID {
	t.Helper()
	now := time.Now()
	team := &teammodel.Team{
		ID:        uuid.New(),
		Name:      "team-" + uuid.NewString()[:8],
		Balance:   balance,
		CreatorID: creator,
		MemberIDs: []uuid.UUID{creator},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.teams.Create(context.Background(), team))
	return team.ID
}

func (f *saleFixture) seedNFT(t *testing.T, owner uuid.UUID, price int64) uuid.UUID {
	t.Helper()
	nft := &nftmodel.NFT{
		Name:    "item",
		Image:   "https://cdn.example.com/item.png",
		Price:   price,
		OwnerID: owner,
		Status:  nftmodel.StatusPublished,
	}
	require.NoError(t, f.nfts.Create(context.Background(), nft))
	return nft.ID
}

func (f *saleFixture) balance(t *testing.T, teamID uuid.UUID) int64 {
	t.Helper()
	team, err := f.teams.GetByID(context.Background(), teamID)
	require.NoError(t, err)
	return team.Balance
}

// Two teams start at 100/100; selling an item for 5 should leave 105/95
// with the total conserved, and selling it back should restore 100/100.
func TestCreateSaleMovesMoneyAndItem(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	sellerTeam := f.seedTeam(t, seller, 100)
	buyerTeam := f.seedTeam(t, buyer, 100)
	nftID := f.seedNFT(t, seller, 5)

	dto, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), dto.Price)

	assert.Equal(t, int64(105), f.balance(t, sellerTeam))
	assert.Equal(t, int64(95), f.balance(t, buyerTeam))
	assert.Equal(t, int64(200), f.balance(t, sellerTeam)+f.balance(t, buyerTeam))

	nft, err := f.nfts.GetByID(context.Background(), nftID)
	require.NoError(t, err)
	assert.Equal(t, buyer, nft.OwnerID)
	assert.Equal(t, []uuid.UUID{seller}, nft.PreviousOwnerIDs)

	// Trade it back; the ledger returns to its starting point and the
	// history keeps both hops in order.
	_, err = f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: buyer,
		BuyerID:  seller,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), f.balance(t, sellerTeam))
	assert.Equal(t, int64(100), f.balance(t, buyerTeam))

	nft, err = f.nfts.GetByID(context.Background(), nftID)
	require.NoError(t, err)
	assert.Equal(t, seller, nft.OwnerID)
	assert.Equal(t, []uuid.UUID{seller, buyer}, nft.PreviousOwnerIDs)
}

func TestCreateSaleRejectsNonPositivePrice(t *testing.T) {
	f := newSaleFixture()

	for _, price := range []int64{0, -5} {
		_, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
			NFTID:    uuid.New(),
			Price:    price,
			SellerID: uuid.New(),
			BuyerID:  uuid.New(),
		})
		assert.True(t, errors.Is(err, model.ErrInvalidPrice), "price %d", price)
	}
}

func TestCreateSaleUnknownParties(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	f.seedTeam(t, seller, 100)
	nftID := f.seedNFT(t, seller, 5)

	_, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  uuid.New(),
	})
	assert.True(t, errors.Is(err, usermodel.ErrUserNotFound))
}

func TestCreateSaleSellerMustOwnItem(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	other := f.seedUser(t)
	f.seedTeam(t, seller, 100)
	f.seedTeam(t, buyer, 100)
	nftID := f.seedNFT(t, other, 5)

	_, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	assert.True(t, errors.Is(err, model.ErrNotNFTOwner))
}

// failingNFTRepo simulates a backend outage on item lookups.
type failingNFTRepo struct {
	*nftrepo.MemoryNFTRepository
	err error
}

func (r *failingNFTRepo) GetByID(context.Context, uuid.UUID) (*nftmodel.NFT, error) {
	return nil, r.err
}

func TestCreateSaleItemLookupFailurePropagates(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	f.seedTeam(t, seller, 100)
	f.seedTeam(t, buyer, 100)
	nftID := f.seedNFT(t, seller, 5)

	boom := errors.New("connection reset")
	svc := NewSaleService(f.sales, f.users, &failingNFTRepo{f.nfts, boom}, f.teams, nil)

	_, err := svc.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	// A broken lookup is not an ownership verdict.
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, model.ErrNotNFTOwner))

	// An unknown item, by contrast, does read as not owning it.
	_, err = f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    uuid.New(),
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	assert.True(t, errors.Is(err, model.ErrNotNFTOwner))
}

func TestCreateSaleRequiresBothTeams(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	f.seedTeam(t, seller, 100)
	nftID := f.seedNFT(t, seller, 5)

	_, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	assert.True(t, errors.Is(err, model.ErrNoTeam))
}

func TestCreateSaleRejectsSameTeam(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	teamID := f.seedTeam(t, seller, 100)
	require.NoError(t, f.teams.AddMember(context.Background(), teamID, buyer))
	nftID := f.seedNFT(t, seller, 5)

	_, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	assert.True(t, errors.Is(err, model.ErrSameTeam))
}

func TestCreateSaleInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	sellerTeam := f.seedTeam(t, seller, 100)
	buyerTeam := f.seedTeam(t, buyer, 3)
	nftID := f.seedNFT(t, seller, 5)

	_, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID:    nftID,
		Price:    5,
		SellerID: seller,
		BuyerID:  buyer,
	})
	assert.True(t, errors.Is(err, model.ErrInsufficientBalance))

	// Nothing moved.
	assert.Equal(t, int64(100), f.balance(t, sellerTeam))
	assert.Equal(t, int64(3), f.balance(t, buyerTeam))
	nft, err := f.nfts.GetByID(context.Background(), nftID)
	require.NoError(t, err)
	assert.Equal(t, seller, nft.OwnerID)
	assert.Empty(t, nft.PreviousOwnerIDs)

	sales, total, err := f.service.ListSales(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Equal(t, 0, total)
}

func TestSaleReads(t *testing.T) {
	f := newSaleFixture()
	seller := f.seedUser(t)
	buyer := f.seedUser(t)
	f.seedTeam(t, seller, 1000)
	f.seedTeam(t, buyer, 1000)

	cheap := f.seedNFT(t, seller, 1)
	dear := f.seedNFT(t, seller, 1)

	first, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID: cheap, Price: 10, SellerID: seller, BuyerID: buyer,
	})
	require.NoError(t, err)
	second, err := f.service.CreateSale(context.Background(), model.CreateSaleRequest{
		NFTID: dear, Price: 50, SellerID: seller, BuyerID: buyer,
	})
	require.NoError(t, err)

	got, err := f.service.GetSale(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = f.service.GetSale(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, model.ErrSaleNotFound))

	// List orders by price, most expensive first.
	byPrice, total, err := f.service.ListSales(context.Background(), 0, 20)
	require.NoError(t, err)
	require.Len(t, byPrice, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, second.ID, byPrice[0].ID)

	// Recent orders newest first.
	recent, err := f.service.RecentSales(context.Background(), 0, 20)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)

	sold, err := f.service.SalesBySeller(context.Background(), seller, 0, 20)
	require.NoError(t, err)
	assert.Len(t, sold, 2)

	bought, err := f.service.SalesByBuyer(context.Background(), buyer, 0, 20)
	require.NoError(t, err)
	assert.Len(t, bought, 2)

	none, err := f.service.SalesByBuyer(context.Background(), seller, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, none)
}
