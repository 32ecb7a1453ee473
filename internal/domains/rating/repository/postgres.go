package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/internal/domains/rating/model"
)

const ratingColumns = `id, nft_id, user_id, score, created_at, updated_at, deleted_at`

type PostgresRatingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRatingRepository(pool *pgxpool.Pool) *PostgresRatingRepository {
	return &PostgresRatingRepository{pool: pool}
}

func (r *PostgresRatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO ratings (id, nft_id, user_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	rating.ID = uuid.New()
	rating.CreatedAt = now
	rating.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		rating.ID, rating.NFTID, rating.UserID, rating.Score, rating.CreatedAt, rating.UpdatedAt,
	)
	if err != nil {
		// unique (user_id, nft_id) index
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyRated
		}
		return err
	}
	return nil
}

func (r *PostgresRatingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE id = $1 AND deleted_at IS NULL`

	rating, err := scanRating(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRatingNotFound
		}
		return nil, err
	}
	return rating, nil
}

func (r *PostgresRatingRepository) Update(ctx context.Context, rating *model.Rating) error {
	query := `UPDATE ratings SET score = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`

	rating.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, query, rating.ID, rating.Score, rating.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRatingNotFound
	}
	return nil
}

func (r *PostgresRatingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE ratings SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRatingNotFound
	}
	return nil
}

func (r *PostgresRatingRepository) List(ctx context.Context, offset, limit int) ([]*model.Rating, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ratingColumns + ` FROM ratings
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ratings, err := collectRatings(rows)
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func (r *PostgresRatingRepository) ListByNFT(ctx context.Context, nftID uuid.UUID) ([]*model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings
		WHERE nft_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, nftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRatings(rows)
}

func (r *PostgresRatingRepository) HasRated(ctx context.Context, userID, nftID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE user_id = $1 AND nft_id = $2 AND deleted_at IS NULL)`

	var rated bool
	if err := r.pool.QueryRow(ctx, query, userID, nftID).Scan(&rated); err != nil {
		return false, err
	}
	return rated, nil
}

func (r *PostgresRatingRepository) TopRated(ctx context.Context, offset, limit int, publishedOnly bool) ([]*model.NFTRating, error) {
	query := `
		SELECT r.nft_id, AVG(r.score) AS average, COUNT(r.id) AS rating_count
		FROM ratings r
		JOIN nfts n ON n.id = r.nft_id AND n.deleted_at IS NULL
		WHERE r.deleted_at IS NULL`
	args := []interface{}{offset, limit}
	if publishedOnly {
		query += ` AND n.status = $3`
		args = append(args, nftmodel.StatusPublished)
	}
	query += `
		GROUP BY r.nft_id
		ORDER BY average DESC, rating_count DESC
		OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make([]*model.NFTRating, 0)
	for rows.Next() {
		var rank model.NFTRating
		var average decimal.Decimal
		if err := rows.Scan(&rank.NFTID, &average, &rank.Count); err != nil {
			return nil, err
		}
		rank.Average = average
		ranks = append(ranks, &rank)
	}
	return ranks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRating(row rowScanner) (*model.Rating, error) {
	var rating model.Rating
	err := row.Scan(
		&rating.ID, &rating.NFTID, &rating.UserID, &rating.Score,
		&rating.CreatedAt, &rating.UpdatedAt, &rating.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func collectRatings(rows pgx.Rows) ([]*model.Rating, error) {
	ratings := make([]*model.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
