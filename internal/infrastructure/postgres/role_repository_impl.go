package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

type RoleRepository struct {
	pool DB
}

func NewRoleRepository(pool DB) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	role := &entity.Role{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, alignment, description, created_at, updated_at
		FROM roles WHERE id = $1
	`, id).Scan(&role.ID, &role.Name, &role.Alignment, &role.Description,
		&role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) SearchByNamePrefix(ctx context.Context, prefix string, take int) ([]*entity.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, alignment, description, created_at, updated_at
		FROM roles
		WHERE name ILIKE $1 || '%'
		ORDER BY name
		LIMIT $2
	`, prefix, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Role
	for rows.Next() {
		role := &entity.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.Alignment,
			&role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
