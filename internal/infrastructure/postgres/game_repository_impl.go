package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

const gameColumns = `id, name, location, player_count, status, main_host_id,
	participating_character_ids, winner_crowns, winner_rubies, loser_rubies,
	loser_strikes, created_at, updated_at`

type GameRepository struct {
	pool DB
}

func NewGameRepository(pool DB) *GameRepository {
	return &GameRepository{pool: pool}
}

func scanGame(row pgx.Row) (*entity.Game, error) {
	g := &entity.Game{}
	err := row.Scan(&g.ID, &g.Name, &g.Location, &g.PlayerCount, &g.Status,
		&g.MainHostID, &g.ParticipatingCharacterIDs, &g.WinnerCrowns,
		&g.WinnerRubies, &g.LoserRubies, &g.LoserStrikes, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *GameRepository) Create(ctx context.Context, g *entity.Game) error {
	if g.Status == "" {
		g.Status = entity.GameEnlisting
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO games (name, location, player_count, status, main_host_id,
			winner_crowns, winner_rubies, loser_rubies, loser_strikes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, g.Name, g.Location, g.PlayerCount, g.Status, g.MainHostID,
		g.WinnerCrowns, g.WinnerRubies, g.LoserRubies, g.LoserStrikes)
	return row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return scanGame(r.pool.QueryRow(ctx, `
		SELECT `+gameColumns+` FROM games WHERE id = $1
	`, id))
}

func (r *GameRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Game, error) {
	return r.queryGames(ctx, `
		SELECT `+gameColumns+` FROM games ORDER BY created_at DESC LIMIT $1
	`, limit)
}

func (r *GameRepository) ListByHost(ctx context.Context, hostID string) ([]*entity.Game, error) {
	return r.queryGames(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE main_host_id = $1 AND status <> 'COMPLETED'
		ORDER BY created_at DESC
	`, hostID)
}

func (r *GameRepository) SearchByNamePrefix(ctx context.Context, prefix string, take int) ([]*entity.Game, error) {
	return r.queryGames(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE name ILIKE $1 || '%'
		ORDER BY name
		LIMIT $2
	`, prefix, take)
}

func (r *GameRepository) queryGames(ctx context.Context, sql string, args ...any) ([]*entity.Game, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

var _ repository.GameRepository = (*GameRepository)(nil)
