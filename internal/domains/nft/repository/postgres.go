package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"nft-market-backend/internal/domains/nft/model"
)

const nftColumns = `id, name, image, price, owner_id, status, collection_id, previous_owner_ids, created_at, updated_at, deleted_at`

type PostgresNFTRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNFTRepository(pool *pgxpool.Pool) *PostgresNFTRepository {
	return &PostgresNFTRepository{pool: pool}
}

func (r *PostgresNFTRepository) Create(ctx context.Context, nft *model.NFT) error {
	query := `
		INSERT INTO nfts (id, name, image, price, owner_id, status, previous_owner_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	nft.ID = uuid.New()
	nft.CreatedAt = now
	nft.UpdatedAt = now
	if nft.PreviousOwnerIDs == nil {
		nft.PreviousOwnerIDs = []uuid.UUID{}
	}

	_, err := r.pool.Exec(ctx, query,
		nft.ID, nft.Name, nft.Image, nft.Price, nft.OwnerID,
		nft.Status, pq.Array(nft.PreviousOwnerIDs), nft.CreatedAt, nft.UpdatedAt,
	)
	return err
}

func (r *PostgresNFTRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.NFT, error) {
	query := `SELECT ` + nftColumns + ` FROM nfts WHERE id = $1 AND deleted_at IS NULL`

	nft, err := scanNFT(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNFTNotFound
		}
		return nil, err
	}
	return nft, nil
}

func (r *PostgresNFTRepository) Update(ctx context.Context, nft *model.NFT) error {
	query := `
		UPDATE nfts
		SET name = $2, image = $3, price = $4, status = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`

	nft.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, query,
		nft.ID, nft.Name, nft.Image, nft.Price, nft.Status, nft.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNFTNotFound
	}
	return nil
}

func (r *PostgresNFTRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE nfts SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNFTNotFound
	}
	return nil
}

func (r *PostgresNFTRepository) List(ctx context.Context, offset, limit int) ([]*model.NFT, int, error) {
	return r.list(ctx, `deleted_at IS NULL`, nil, offset, limit)
}

func (r *PostgresNFTRepository) ListPublished(ctx context.Context, offset, limit int) ([]*model.NFT, int, error) {
	return r.list(ctx, `deleted_at IS NULL AND status = $1`, []interface{}{model.StatusPublished}, offset, limit)
}

func (r *PostgresNFTRepository) list(ctx context.Context, where string, args []interface{}, offset, limit int) ([]*model.NFT, int, error) {
	countQuery := `SELECT COUNT(*) FROM nfts WHERE ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM nfts WHERE %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		nftColumns, where, n+1, n+2)
	rows, err := r.pool.Query(ctx, query, append(args, offset, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	nfts, err := collectNFTs(rows)
	if err != nil {
		return nil, 0, err
	}
	return nfts, total, nil
}

func (r *PostgresNFTRepository) ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.NFT, error) {
	query := `SELECT ` + nftColumns + ` FROM nfts
		WHERE collection_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNFTs(rows)
}

func (r *PostgresNFTRepository) IsOwner(ctx context.Context, nftID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM nfts WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL)`

	var owns bool
	if err := r.pool.QueryRow(ctx, query, nftID, userID).Scan(&owns); err != nil {
		return false, err
	}
	return owns, nil
}

func (r *PostgresNFTRepository) SetCollection(ctx context.Context, nftID, collectionID uuid.UUID) error {
	query := `
		UPDATE nfts SET collection_id = $2, updated_at = $3
		WHERE id = $1 AND collection_id IS NULL AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, nftID, collectionID, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyCollected
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNFT(row rowScanner) (*model.NFT, error) {
	var nft model.NFT
	var history []uuid.UUID

	err := row.Scan(
		&nft.ID, &nft.Name, &nft.Image, &nft.Price, &nft.OwnerID,
		&nft.Status, &nft.CollectionID, pq.Array(&history),
		&nft.CreatedAt, &nft.UpdatedAt, &nft.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	nft.PreviousOwnerIDs = history
	return &nft, nil
}

func collectNFTs(rows pgx.Rows) ([]*model.NFT, error) {
	nfts := make([]*model.NFT, 0)
	for rows.Next() {
		nft, err := scanNFT(rows)
		if err != nil {
			return nil, err
		}
		nfts = append(nfts, nft)
	}
	return nfts, rows.Err()
}
