package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nft-market-backend/internal/domains/sale/model"
	"nft-market-backend/pkg/database"
)

const saleColumns = `id, nft_id, price, seller_id, buyer_id, created_at`

type PostgresSaleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSaleRepository(pool *pgxpool.Pool) *PostgresSaleRepository {
	return &PostgresSaleRepository{pool: pool}
}

func (r *PostgresSaleRepository) Settle(ctx context.Context, settlement *model.Settlement) error {
	sale := settlement.Sale
	sale.ID = uuid.New()
	sale.CreatedAt = time.Now()

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Move the item: record the seller in the history and hand the
		// item to the buyer. The owner guard makes a stale read lose.
		transfer := `
			UPDATE nfts
			SET previous_owner_ids = array_append(previous_owner_ids, owner_id),
			    owner_id = $3, updated_at = $4
			WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`
		tag, err := tx.Exec(ctx, transfer, sale.NFTID, sale.SellerID, sale.BuyerID, sale.CreatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotNFTOwner
		}

		insert := `
			INSERT INTO sales (id, nft_id, price, seller_id, buyer_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.Exec(ctx, insert,
			sale.ID, sale.NFTID, sale.Price, sale.SellerID, sale.BuyerID, sale.CreatedAt,
		); err != nil {
			return err
		}

		// Debit with a balance guard; losing the race rolls everything
		// back.
		debit := `
			UPDATE teams SET balance = balance - $2, updated_at = $3
			WHERE id = $1 AND balance >= $2 AND deleted_at IS NULL`
		tag, err = tx.Exec(ctx, debit, settlement.BuyerTeamID, sale.Price, sale.CreatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrInsufficientBalance
		}

		credit := `
			UPDATE teams SET balance = balance + $2, updated_at = $3
			WHERE id = $1 AND deleted_at IS NULL`
		tag, err = tx.Exec(ctx, credit, settlement.SellerTeamID, sale.Price, sale.CreatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNoTeam
		}
		return nil
	})
}

func (r *PostgresSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	sale, err := scanSale(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (r *PostgresSaleRepository) List(ctx context.Context, offset, limit int) ([]*model.Sale, int, error) {
	// Count and page inside one transaction so the total matches the
	// rows returned.
	var total int
	sales, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]*model.Sale, error) {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
			return nil, err
		}

		query := `SELECT ` + saleColumns + ` FROM sales ORDER BY price DESC OFFSET $1 LIMIT $2`
		rows, err := tx.Query(ctx, query, offset, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		return collectSales(rows)
	})
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *PostgresSaleRepository) Recent(ctx context.Context, offset, limit int) ([]*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	return r.query(ctx, query, offset, limit)
}

func (r *PostgresSaleRepository) BySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE seller_id = $3 ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	return r.query(ctx, query, offset, limit, sellerID)
}

func (r *PostgresSaleRepository) ByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE buyer_id = $3 ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	return r.query(ctx, query, offset, limit, buyerID)
}

func (r *PostgresSaleRepository) query(ctx context.Context, query string, offset, limit int, extra ...interface{}) ([]*model.Sale, error) {
	args := append([]interface{}{offset, limit}, extra...)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSales(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner) (*model.Sale, error) {
	var sale model.Sale
	err := row.Scan(&sale.ID, &sale.NFTID, &sale.Price, &sale.SellerID, &sale.BuyerID, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func collectSales(rows pgx.Rows) ([]*model.Sale, error) {
	sales := make([]*model.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
