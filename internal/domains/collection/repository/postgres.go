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
	"github.com/shopspring/decimal"

	"nft-market-backend/internal/domains/collection/model"
	nftmodel "nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/pkg/database"
)

const collectionColumns = `id, name, logo, status, creator_id, nfts_ids, archived_at, created_at, updated_at, deleted_at`

type PostgresCollectionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCollectionRepository(pool *pgxpool.Pool) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{pool: pool}
}

func (r *PostgresCollectionRepository) Create(ctx context.Context, collection *model.Collection) error {
	now := time.Now()
	collection.ID = uuid.New()
	collection.CreatedAt = now
	collection.UpdatedAt = now
	if collection.NFTIDs == nil {
		collection.NFTIDs = []uuid.UUID{}
	}
	if collection.IsArchived() && collection.ArchivedAt == nil {
		collection.ArchivedAt = &now
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO collections (id, name, logo, status, creator_id, nfts_ids, archived_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		_, err := tx.Exec(ctx, insert,
			collection.ID, collection.Name, collection.Logo, collection.Status,
			collection.CreatorID, pq.Array(collection.NFTIDs), collection.ArchivedAt,
			collection.CreatedAt, collection.UpdatedAt,
		)
		if err != nil {
			return err
		}

		stamp := `
			UPDATE nfts SET collection_id = $1, updated_at = $2
			WHERE id = $3 AND collection_id IS NULL AND deleted_at IS NULL`
		for _, nftID := range collection.NFTIDs {
			tag, err := tx.Exec(ctx, stamp, collection.ID, now, nftID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return nftmodel.ErrAlreadyCollected
			}
		}
		return nil
	})
}

func (r *PostgresCollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1 AND deleted_at IS NULL`

	collection, err := scanCollection(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCollectionNotFound
		}
		return nil, err
	}
	return collection, nil
}

func (r *PostgresCollectionRepository) Update(ctx context.Context, collection *model.Collection) error {
	query := `
		UPDATE collections
		SET name = $2, logo = $3, status = $4, archived_at = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`

	collection.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, query,
		collection.ID, collection.Name, collection.Logo, collection.Status,
		collection.ArchivedAt, collection.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCollectionNotFound
	}
	return nil
}

func (r *PostgresCollectionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE collections SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCollectionNotFound
	}
	return nil
}

func (r *PostgresCollectionRepository) List(ctx context.Context, offset, limit int) ([]*model.Collection, int, error) {
	return r.list(ctx, `deleted_at IS NULL`, nil, offset, limit)
}

func (r *PostgresCollectionRepository) ListPublished(ctx context.Context, offset, limit int) ([]*model.Collection, int, error) {
	return r.list(ctx, `deleted_at IS NULL AND status = $1`, []interface{}{nftmodel.StatusPublished}, offset, limit)
}

func (r *PostgresCollectionRepository) list(ctx context.Context, where string, args []interface{}, offset, limit int) ([]*model.Collection, int, error) {
	countQuery := `SELECT COUNT(*) FROM collections WHERE ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM collections WHERE %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		collectionColumns, where, n+1, n+2)
	rows, err := r.pool.Query(ctx, query, append(args, offset, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	collections := make([]*model.Collection, 0)
	for rows.Next() {
		collection, err := scanCollection(rows)
		if err != nil {
			return nil, 0, err
		}
		collections = append(collections, collection)
	}
	return collections, total, rows.Err()
}

func (r *PostgresCollectionRepository) AddNFT(ctx context.Context, collectionID, nftID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()

		appendQuery := `
			UPDATE collections SET nfts_ids = array_append(nfts_ids, $2), updated_at = $3
			WHERE id = $1 AND deleted_at IS NULL AND NOT ($2 = ANY(nfts_ids))`
		tag, err := tx.Exec(ctx, appendQuery, collectionID, nftID, now)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAlreadyContains
		}

		stamp := `
			UPDATE nfts SET collection_id = $1, updated_at = $2
			WHERE id = $3 AND collection_id IS NULL AND deleted_at IS NULL`
		tag, err = tx.Exec(ctx, stamp, collectionID, now, nftID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nftmodel.ErrAlreadyCollected
		}
		return nil
	})
}

func (r *PostgresCollectionRepository) TopCollections(ctx context.Context, offset, limit int, publishedOnly bool) ([]*model.CollectionRank, error) {
	where := `c.deleted_at IS NULL`
	args := []interface{}{}
	if publishedOnly {
		where += ` AND c.status = $1`
		args = append(args, nftmodel.StatusPublished)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.logo, c.status, c.creator_id, c.nfts_ids,
		       c.archived_at, c.created_at, c.updated_at, c.deleted_at,
		       COALESCE(SUM(n.price), 0) AS total_value
		FROM collections c
		LEFT JOIN nfts n ON n.collection_id = c.id AND n.deleted_at IS NULL
		WHERE %s
		GROUP BY c.id
		ORDER BY total_value DESC, c.created_at ASC
		OFFSET $%d LIMIT $%d`, where, n+1, n+2)

	rows, err := r.pool.Query(ctx, query, append(args, offset, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make([]*model.CollectionRank, 0)
	for rows.Next() {
		var collection model.Collection
		var nftIDs []uuid.UUID
		var totalValue decimal.Decimal

		err := rows.Scan(
			&collection.ID, &collection.Name, &collection.Logo, &collection.Status,
			&collection.CreatorID, pq.Array(&nftIDs), &collection.ArchivedAt,
			&collection.CreatedAt, &collection.UpdatedAt, &collection.DeletedAt,
			&totalValue,
		)
		if err != nil {
			return nil, err
		}
		collection.NFTIDs = nftIDs
		ranks = append(ranks, &model.CollectionRank{
			Collection: collection.ToDTO(),
			TotalValue: totalValue,
		})
	}
	return ranks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollection(row rowScanner) (*model.Collection, error) {
	var collection model.Collection
	var nftIDs []uuid.UUID

	err := row.Scan(
		&collection.ID, &collection.Name, &collection.Logo, &collection.Status,
		&collection.CreatorID, pq.Array(&nftIDs), &collection.ArchivedAt,
		&collection.CreatedAt, &collection.UpdatedAt, &collection.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	collection.NFTIDs = nftIDs
	return &collection, nil
}
