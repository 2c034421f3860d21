package repository

import (
	"context"

	"github.com/ocmafia/server/internal/domain/entity"
)

type GameRepository interface {
	Create(ctx context.Context, g *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Game, error)
	ListByHost(ctx context.Context, hostID string) ([]*entity.Game, error)
	SearchByNamePrefix(ctx context.Context, prefix string, take int) ([]*entity.Game, error)
}
