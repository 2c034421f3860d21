package repository

import (
	"context"

	"github.com/ocmafia/server/internal/domain/entity"
)

type CharacterRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Character, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Character, error)
	// ActiveByOwner returns the owner's character currently in a game,
	// or ErrNotFound when none is.
	ActiveByOwner(ctx context.Context, ownerID string) (*entity.Character, error)
}
