package repository

import (
	"context"

	"github.com/ocmafia/server/internal/domain/entity"
)

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	SearchByNamePrefix(ctx context.Context, prefix string, take int) ([]*entity.Role, error)
}
