package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

// current_game_id is a nullable uuid; coalesce to '' so it scans into a string.
const characterColumns = `id, owner_id, name, display_name, avatar_url,
	featured_image_url, crowns, strikes, status, COALESCE(current_game_id::text, ''), created_at, updated_at`

type CharacterRepository struct {
	pool DB
}

func NewCharacterRepository(pool DB) *CharacterRepository {
	return &CharacterRepository{pool: pool}
}

func scanCharacter(row pgx.Row) (*entity.Character, error) {
	ch := &entity.Character{}
	err := row.Scan(&ch.ID, &ch.OwnerID, &ch.Name, &ch.DisplayName, &ch.AvatarURL,
		&ch.FeaturedImageURL, &ch.Crowns, &ch.Strikes, &ch.Status,
		&ch.CurrentGameID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ch, nil
}

func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	return scanCharacter(r.pool.QueryRow(ctx, `
		SELECT `+characterColumns+` FROM characters WHERE id = $1
	`, id))
}

func (r *CharacterRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Character, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+characterColumns+` FROM characters
		WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Character
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (r *CharacterRepository) ActiveByOwner(ctx context.Context, ownerID string) (*entity.Character, error) {
	return scanCharacter(r.pool.QueryRow(ctx, `
		SELECT `+characterColumns+` FROM characters
		WHERE owner_id = $1 AND status = 'ACTIVE' AND current_game_id IS NOT NULL
		LIMIT 1
	`, ownerID))
}

var _ repository.CharacterRepository = (*CharacterRepository)(nil)
