package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"nft-market-backend/internal/domains/team/model"
	"nft-market-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &postgresTeamRepository{pool: pool}
}

func scanTeam(row pgx.Row) (*model.Team, error) {
	t := &model.Team{}
	var memberIDs []uuid.UUID

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Balance,
		pq.Array(&memberIDs),
		&t.CreatorID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	t.MemberIDs = memberIDs
	return t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *model.Team) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO teams (
				id, name, balance, creator_id, member_ids,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		_, err := tx.Exec(ctx, query,
			team.ID,
			team.Name,
			team.Balance,
			team.CreatorID,
			pq.Array(team.MemberIDs),
			team.CreatedAt,
			team.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
			team.CreatorID, team.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to assign creator to team: %w", err)
		}

		return nil
	})
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	query := `
		SELECT id, name, balance, member_ids, creator_id, created_at, updated_at, deleted_at
		FROM teams
		WHERE id = $1 AND deleted_at IS NULL
	`

	t, err := scanTeam(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return t, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *model.Team) error {
	query := `
		UPDATE teams SET
			name = $2,
			balance = $3,
			updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.Balance, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE teams SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
		if err != nil {
			return fmt.Errorf("failed to delete team: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrTeamNotFound
		}

		// Release every member of the deleted team.
		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = NULL, updated_at = NOW() WHERE team_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to release team members: %w", err)
		}

		return nil
	})
}

func (r *postgresTeamRepository) list(ctx context.Context, orderBy string, offset, limit int) ([]*model.Team, error) {
	query := `
		SELECT id, name, balance, member_ids, creator_id, created_at, updated_at, deleted_at
		FROM teams
		WHERE deleted_at IS NULL
		ORDER BY ` + orderBy + `
		OFFSET $1 LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []*model.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) List(ctx context.Context, offset, limit int) ([]*model.Team, error) {
	return r.list(ctx, "created_at", offset, limit)
}

func (r *postgresTeamRepository) BestSellers(ctx context.Context, offset, limit int) ([]*model.Team, error) {
	return r.list(ctx, "balance DESC, created_at", offset, limit)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE teams
			SET member_ids = array_append(member_ids, $2), updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL AND NOT ($2 = ANY(member_ids))
		`, teamID, userID)
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrTeamNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
			userID, teamID,
		)
		if err != nil {
			return fmt.Errorf("failed to set user team: %w", err)
		}

		return nil
	})
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE teams
			SET member_ids = array_remove(member_ids, $2), updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
		`, teamID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrTeamNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = NULL, updated_at = NOW() WHERE id = $1`,
			userID,
		)
		if err != nil {
			return fmt.Errorf("failed to clear user team: %w", err)
		}

		return nil
	})
}

func (r *postgresTeamRepository) UserHasTeam(ctx context.Context, userID uuid.UUID) (bool, error) {
	var hasTeam bool
	query := `SELECT EXISTS(
		SELECT 1 FROM users u
		JOIN teams t ON t.id = u.team_id
		WHERE u.id = $1 AND u.deleted_at IS NULL AND t.deleted_at IS NULL
	)`

	if err := r.pool.QueryRow(ctx, query, userID).Scan(&hasTeam); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return hasTeam, nil
}

func (r *postgresTeamRepository) UserBelongsTo(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	var belongs bool
	query := `SELECT EXISTS(
		SELECT 1 FROM teams
		WHERE id = $2 AND deleted_at IS NULL AND $1 = ANY(member_ids)
	)`

	if err := r.pool.QueryRow(ctx, query, userID, teamID).Scan(&belongs); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return belongs, nil
}
